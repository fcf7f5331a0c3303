// Package btrfs holds helpers for troubleshooting the btrfs RAID array
// that BakingTray machines store acquisitions on. Not bulletproof:
// requires btrfs-progs and smartmontools, and assumes fstab has a
// single btrfs mount.
package btrfs

import (
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
)

// DefaultAgeThresholdDays is the disk age beyond which a drive is
// flagged for replacement.
const DefaultAgeThresholdDays = 700

var (
	fstabBtrfsRe = regexp.MustCompile(` +(/.*?) +btrfs +`)
	deviceRe     = regexp.MustCompile(`/dev/\S+`)
)

// ParseFstabMountPoint extracts the btrfs mount point from fstab
// contents. The first btrfs entry wins.
func ParseFstabMountPoint(fstab string) (string, error) {
	m := fstabBtrfsRe.FindStringSubmatch(fstab)
	if m == nil {
		return "", fmt.Errorf("no btrfs mount found in fstab")
	}
	return m[1], nil
}

// MountPoint reads /etc/fstab and returns the btrfs mount point.
func MountPoint() (string, error) {
	data, err := os.ReadFile("/etc/fstab")
	if err != nil {
		return "", fmt.Errorf("failed to read fstab: %w", err)
	}
	return ParseFstabMountPoint(string(data))
}

// Show runs `btrfs fi show` on the given mount point and returns its
// output. Needs root, so goes through sudo like the rest of the
// btrfs-progs calls.
func Show(mount string) (string, error) {
	out, err := exec.Command("sudo", "btrfs", "fi", "show", mount).Output()
	if err != nil {
		return "", fmt.Errorf("btrfs fi show failed: %w", err)
	}
	return string(out), nil
}

// ParseDevices extracts the device paths from `btrfs fi show` output.
func ParseDevices(showOutput string) []string {
	return deviceRe.FindAllString(showOutput, -1)
}

// Devices returns the devices backing the btrfs array.
func Devices() ([]string, error) {
	mount, err := MountPoint()
	if err != nil {
		return nil, err
	}
	out, err := Show(mount)
	if err != nil {
		return nil, err
	}
	devices := ParseDevices(out)
	if len(devices) == 0 {
		return nil, fmt.Errorf("no devices found in btrfs fi show output")
	}
	return devices, nil
}

// DiskAge is the power-on age of one array device.
type DiskAge struct {
	Device string  `json:"device"`
	Days   float64 `json:"days"`
}

// PowerOnAges returns the power-on time of every device in the array.
func PowerOnAges() ([]DiskAge, error) {
	devices, err := Devices()
	if err != nil {
		return nil, err
	}

	var ages []DiskAge
	for _, dev := range devices {
		hours, err := PowerOnHours(dev)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", dev, err)
		}
		ages = append(ages, DiskAge{Device: dev, Days: float64(hours) / 24})
	}
	return ages, nil
}

// DisksOlderThan filters ages down to devices older than threshold
// days.
func DisksOlderThan(ages []DiskAge, thresholdDays float64) []DiskAge {
	var old []DiskAge
	for _, age := range ages {
		if age.Days > thresholdDays {
			old = append(old, age)
		}
	}
	return old
}

// FormatAges renders disk ages the way the operators are used to
// reading them: one "device N days" line each.
func FormatAges(ages []DiskAge) string {
	var b strings.Builder
	for _, age := range ages {
		fmt.Fprintf(&b, "%s %d days\n", age.Device, int(age.Days))
	}
	return b.String()
}
