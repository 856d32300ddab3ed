//go:build !linux

package main

import "fmt"

func openHardwareBack(string, int) (hardwareSource, error) {
	return nil, fmt.Errorf("hardware back devices are only supported on linux")
}
