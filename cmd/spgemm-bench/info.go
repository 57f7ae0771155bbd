package main

import (
	"fmt"
	"io"

	"github.com/common-nighthawk/go-figure"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"

	"github.com/fxnlabs/spgemm-bench/internal/device"
)

func printBanner(w io.Writer, title string) {
	banner := figure.NewFigure(title, "", true)
	fmt.Fprintln(w, banner.String())
}

func infoCommand(st *appState) *cli.Command {
	return &cli.Command{
		Name:  "info",
		Usage: "Print information about the selected device",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "backend", Usage: "Device backend: auto, host or cuda"},
		},
		Action: func(c *cli.Context) error {
			backend := st.cfg.Device.Backend
			if c.IsSet("backend") {
				backend = c.String("backend")
			}

			m, err := device.NewManager(st.log, backend)
			if err != nil {
				return err
			}
			defer m.Cleanup()

			printDeviceInfo(c.App.Writer, m.GetBackendType(), m.GetDeviceInfo())
			return nil
		},
	}
}

func printDeviceInfo(w io.Writer, backend string, info device.DeviceInfo) {
	fmt.Fprintf(w, "Backend:            %s\n", backend)
	fmt.Fprintf(w, "Device:             %s\n", info.Name)
	fmt.Fprintf(w, "Total memory:       %s\n", humanize.IBytes(uint64(info.TotalMemory)))
	fmt.Fprintf(w, "Available memory:   %s\n", humanize.IBytes(uint64(info.AvailableMemory)))
	if info.ComputeCapability != "" {
		fmt.Fprintf(w, "Compute capability: %s\n", info.ComputeCapability)
	}
	if info.DriverVersion != "" {
		fmt.Fprintf(w, "Driver version:     %s\n", info.DriverVersion)
	}
	if info.RuntimeVersion != "" {
		fmt.Fprintf(w, "Runtime version:    %s\n", info.RuntimeVersion)
	}
}
