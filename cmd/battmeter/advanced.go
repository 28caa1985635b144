package main

import (
	"github.com/spf13/cobra"
)

func NewShowPercentCommand() *cobra.Command {
	return newEnableDisableCommand(
		"show-percent",
		"Draw the charge level as text",
		`Draw the charge level as text inside the icon.

At 100% the text is only drawn when show-100-percent is enabled.`,
		func(b bool) (string, error) { return apiClient.SetShowPercent(b) },
	)
}

func NewCutOutTextCommand() *cobra.Command {
	return newEnableDisableCommand(
		"cut-out-text",
		"Cut the bolt and text out of the fill",
		`Cut the bolt and the percentage text out of the fill instead of painting them on top.

Where the fill is cut, the frame color shows through, which keeps the glyphs readable at any level.`,
		func(b bool) (string, error) { return apiClient.SetCutOutText(b) },
	)
}

func NewChargeAnimationCommand() *cobra.Command {
	return newEnableDisableCommand(
		"charge-animation",
		"Animate the fill while charging",
		`Animate the fill while charging.

The fill sweeps up from the current level to full and starts over, until charging stops.`,
		func(b bool) (string, error) { return apiClient.SetChargeAnimation(b) },
	)
}

func NewPowerSaveCommand() *cobra.Command {
	return newEnableDisableCommand(
		"power-save",
		"Tell the meter power save mode is on",
		`Tell the meter power save mode is on.

In power save mode a low battery keeps the normal colors instead of switching to the low level color.`,
		func(b bool) (string, error) { return apiClient.SetPowerSave(b) },
	)
}

func NewShow100PercentCommand() *cobra.Command {
	return newEnableDisableCommand(
		"show-100-percent",
		"Draw the glyphs of a full battery",
		`Draw the bolt and the percentage text at 100%.

When disabled, a full battery is drawn as a plain full icon.`,
		func(b bool) (string, error) { return apiClient.SetShow100Percent(b) },
	)
}
