package acquisition

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"
)

// DownsampledVolume describes one downsampled tiff stack within an
// acquisition directory.
type DownsampledVolume struct {
	Path        string `json:"path"`
	SampleName  string `json:"sampleName"`
	ChannelName string `json:"channelName"`
	VoxelSize   int    `json:"voxelSize"`
}

// Downsampled stacks live in downsampledStacks_* under sub-directories
// named "<voxel>_micron" and are written as
// ds_<sample>_<v>_<v>_<v>_chan0<N>_<colour>.tif[f]
var (
	micronDirRe = regexp.MustCompile(`^0*(\d+)_micron$`)
	dsStackRe   = regexp.MustCompile(`^ds_(.+)_\d+_\d+_\d+_chan0\d_([A-Za-z]+)\.tiff?$`)
)

// AvailableDownsampledVolumes lists every downsampled stack found under
// dir. It returns one entry per tiff stack, across all voxel sizes and
// channels. A directory with no downsampled stacks yields an empty list.
func AvailableDownsampledVolumes(dir string) ([]DownsampledVolume, error) {
	stackDirs, err := filepath.Glob(filepath.Join(dir, DownsampledGlob))
	if err != nil {
		return nil, err
	}

	var volumes []DownsampledVolume
	for _, stackDir := range stackDirs {
		entries, err := os.ReadDir(stackDir)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			m := micronDirRe.FindStringSubmatch(entry.Name())
			if m == nil {
				continue
			}
			voxel, _ := strconv.Atoi(m[1])
			micronDir := filepath.Join(stackDir, entry.Name())
			stacks, err := os.ReadDir(micronDir)
			if err != nil {
				return nil, err
			}
			for _, stack := range stacks {
				sm := dsStackRe.FindStringSubmatch(stack.Name())
				if sm == nil {
					continue
				}
				volumes = append(volumes, DownsampledVolume{
					Path:        filepath.Join(micronDir, stack.Name()),
					SampleName:  sm[1],
					ChannelName: sm[2],
					VoxelSize:   voxel,
				})
			}
		}
	}
	return volumes, nil
}

// VoxelSizes returns the distinct voxel sizes present in volumes,
// in first-seen order.
func VoxelSizes(volumes []DownsampledVolume) []int {
	seen := map[int]bool{}
	var sizes []int
	for _, v := range volumes {
		if !seen[v.VoxelSize] {
			seen[v.VoxelSize] = true
			sizes = append(sizes, v.VoxelSize)
		}
	}
	return sizes
}

// ChannelNames returns the distinct channel names present in volumes,
// in first-seen order.
func ChannelNames(volumes []DownsampledVolume) []string {
	seen := map[string]bool{}
	var names []string
	for _, v := range volumes {
		if !seen[v.ChannelName] {
			seen[v.ChannelName] = true
			names = append(names, v.ChannelName)
		}
	}
	return names
}
