// Package main provides the Loom array runtime CLI.
package main

import (
	"fmt"
	"os"

	"github.com/loom-ml/loom/backend/host"
	"github.com/loom-ml/loom/backend/webgpu"
)

const version = "v0.0.1-dev"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version":
			fmt.Printf("Loom %s\n", version)
			return
		case "devices":
			printDevices()
			return
		}
	}

	fmt.Println("Loom - strided array runtime for Go")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("  devices    Probe available compute devices")
}

func printDevices() {
	cpu := host.New()
	defer cpu.Release()
	fmt.Printf("%-8s %s\n", cpu.Name(), cpu.Device())

	if webgpu.IsAvailable() {
		gpu, err := webgpu.New()
		if err != nil {
			fmt.Printf("%-8s unavailable: %v\n", "webgpu", err)
			return
		}
		defer gpu.Release()
		fmt.Printf("%-8s %s\n", gpu.Name(), gpu.Device())
	} else {
		fmt.Printf("%-8s unavailable\n", "webgpu")
	}
}
