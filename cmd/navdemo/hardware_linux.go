//go:build linux

package main

import "github.com/BrandonKowalski/navcore/pkg/navcore/platform/evdevback"

func openHardwareBack(device string, keyCode int) (hardwareSource, error) {
	src, err := evdevback.Open(device, keyCode, nil)
	if err != nil {
		return nil, err
	}
	return src, nil
}
