package author

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// BootDescriptorName is the boot descriptor file at the root of the working tree.
const BootDescriptorName = "SYSTEM.CNF"

// ErrNoVolumeLabel reports a missing or unparsable boot descriptor.
var ErrNoVolumeLabel = errors.New("volume label not found in boot descriptor")

// ParseVolumeLabel extracts the volume label token from the BOOT2 line of a
// boot descriptor, e.g. `BOOT2 = cdrom0:\SLUS_215.86;1` yields "SLUS_215.86".
func ParseVolumeLabel(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open boot descriptor: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(strings.ToUpper(line), "BOOT2") {
			continue
		}
		parts := strings.Split(line, `\`)
		if len(parts) < 2 {
			continue
		}
		label := strings.TrimSpace(strings.SplitN(parts[len(parts)-1], ";", 2)[0])
		if label != "" {
			return label, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("read boot descriptor: %w", err)
	}
	return "", ErrNoVolumeLabel
}
