// Functions for dealing with wgrib2

package awhina

import (
	"io"
	"os"
	"os/exec"

	"github.com/pkg/errors"
)

// Command used for launching wgrib2. On each invocation, this command is
// looked up in the system path.
var Wgrib2Command = "wgrib2"

// LocalInventory builds an Inventory for a local GRIB2 file by running
// `wgrib2 -s` over it. Useful when the remote archive publishes no index
// file but the full file has already been downloaded: the output of
// `wgrib2 -s` is exactly the wgrib2 index dialect.
func LocalInventory(path string, forecastHour int) (*Inventory, error) {
	cmd := exec.Command(Wgrib2Command, "-s", path)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errors.Wrap(err, "wgrib2 stdout pipe")
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, errors.Wrap(err, "wgrib2 stderr pipe")
	}

	if err := cmd.Start(); err != nil {
		return nil, errors.Wrapf(err, "start %s", Wgrib2Command)
	}

	go func() { io.Copy(os.Stderr, stderr) }()

	raw, readErr := io.ReadAll(stdout)
	if err := cmd.Wait(); err != nil {
		return nil, errors.Wrapf(err, "%s -s %s", Wgrib2Command, path)
	}
	if readErr != nil {
		return nil, errors.Wrap(readErr, "read wgrib2 output")
	}

	inv, err := parseWgrib2Index(string(raw), forecastHour)
	if err != nil {
		return nil, err
	}
	inv.Source = LocalSource
	return inv, nil
}
