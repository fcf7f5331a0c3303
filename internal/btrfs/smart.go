package btrfs

import (
	"encoding/json"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

// smartctlOutput is the subset of smartctl's JSON output we read.
type smartctlOutput struct {
	PowerOnTime struct {
		Hours int64 `json:"hours"`
	} `json:"power_on_time"`
}

var powerOnHoursRe = regexp.MustCompile(`Power_On_Hours.*-\s+(\d+)`)

// ParseSmartctlJSON extracts the power-on hours from `smartctl -j`
// output.
func ParseSmartctlJSON(data []byte) (int64, error) {
	var out smartctlOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return 0, fmt.Errorf("failed to parse smartctl output: %w", err)
	}
	if out.PowerOnTime.Hours == 0 {
		return 0, fmt.Errorf("smartctl output has no power-on time")
	}
	return out.PowerOnTime.Hours, nil
}

// ParseSmartctlText extracts power-on hours from smartctl's plain-text
// attribute table, for smartctl builds without JSON support.
func ParseSmartctlText(output string) (int64, error) {
	for _, line := range strings.Split(output, "\n") {
		m := powerOnHoursRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		hours, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return 0, err
		}
		return hours, nil
	}
	return 0, fmt.Errorf("no Power_On_Hours attribute in smartctl output")
}

// PowerOnHours queries smartctl for the power-on time of device.
// JSON output is tried first; older smartctl builds fall back to
// scraping the attribute table.
func PowerOnHours(device string) (int64, error) {
	out, err := exec.Command("sudo", "smartctl", "-j", "--all", device).Output()
	if err == nil {
		if hours, jerr := ParseSmartctlJSON(out); jerr == nil {
			return hours, nil
		}
	}

	out, err = exec.Command("sudo", "smartctl", "--all", device).Output()
	if err != nil {
		return 0, fmt.Errorf("smartctl failed for %s: %w", device, err)
	}
	return ParseSmartctlText(string(out))
}
