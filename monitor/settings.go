package main

import (
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/itohio/picotemp/pkg/pico"
	"github.com/itohio/picotemp/pkg/trend"
)

// showSettingsDialog displays a settings dialog with tabs for all configuration options.
func showSettingsDialog(state *appState) {
	// Create tabs
	tabs := container.NewAppTabs(
		createSerialTab(state),
		createTrendTab(state),
		createOutputsTab(state),
		createMirrorTab(state),
		createMockTab(state),
	)

	// Create dialog with tabs as content
	content := container.NewBorder(nil, nil, nil, nil, tabs)
	content.Resize(fyne.NewSize(600, 500))

	d := dialog.NewCustom("Settings", "Close", content, state.window)
	d.Resize(fyne.NewSize(600, 500))
	d.Show()
}

// createSerialTab creates the Serial configuration tab.
func createSerialTab(state *appState) *container.TabItem {
	// Get available serial ports
	ports, err := pico.Ports()
	portOptions := []string{}
	portMap := make(map[string]string) // Map display name to actual port name

	if err == nil {
		for _, port := range ports {
			displayName := port.Name
			if port.Description != "" && port.Description != port.Name {
				displayName = fmt.Sprintf("%s (%s)", port.Name, port.Description)
			}
			portOptions = append(portOptions, displayName)
			portMap[displayName] = port.Name
		}
	}

	// Add current port if not in list
	currentPort := state.cfg.Serial.Port
	currentDisplay := currentPort
	found := false
	for _, opt := range portOptions {
		if portMap[opt] == currentPort {
			currentDisplay = opt
			found = true
			break
		}
	}
	if !found && currentPort != "" {
		portOptions = append(portOptions, currentPort)
		portMap[currentPort] = currentPort
		currentDisplay = currentPort
	}

	portSelect := widget.NewSelect(portOptions, func(selected string) {
		// Selection handler - applied on submit
	})
	if currentDisplay != "" {
		portSelect.SetSelected(currentDisplay)
	}

	baudEntry := widget.NewEntry()
	baudEntry.SetText(strconv.Itoa(state.cfg.Serial.Baud))

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Serial Port", Widget: portSelect},
			{Text: "Baud Rate", Widget: baudEntry},
		},
		OnSubmit: func() {
			if baud, err := strconv.Atoi(baudEntry.Text); err == nil && baud > 0 {
				state.cfg.Serial.Baud = baud
			}

			if portSelect.Selected != "" {
				selectedPort := portMap[portSelect.Selected]
				if selectedPort == "" {
					selectedPort = portSelect.Selected // Fallback to selected text
				}

				// Check if port changed and device is connected
				portChanged := state.cfg.Serial.Port != selectedPort
				wasConnected := state.device != nil && state.device.IsConnected()

				state.cfg.Serial.Port = selectedPort
				if err := state.cfg.Save("config.yaml"); err != nil {
					dialog.ShowError(fmt.Errorf("failed to save config: %w", err), state.window)
					return
				}

				// If port changed and device was connected, restart the reading chain
				if portChanged && wasConnected {
					// Gracefully close old chain
					closeReadChain(state.chain)
					state.chain = nil
					state.device = nil
					closeOutputs(state.outputs)
					state.outputs = nil

					// Reconnect with new port
					handleConnect(state)
				}
			}
		},
	}

	return container.NewTabItem("Serial", form)
}

// createTrendTab creates the Trend configuration tab.
func createTrendTab(state *appState) *container.TabItem {
	windowSecondsEntry := widget.NewEntry()
	windowSecondsEntry.SetText(fmt.Sprintf("%.1f", state.cfg.Trend.WindowSeconds))

	maxPointsEntry := widget.NewEntry()
	maxPointsEntry.SetText(fmt.Sprintf("%d", state.cfg.Trend.MaxPoints))

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Window (seconds)", Widget: windowSecondsEntry},
			{Text: "Max Plot Points", Widget: maxPointsEntry},
		},
		OnSubmit: func() {
			if ws, err := strconv.ParseFloat(windowSecondsEntry.Text, 64); err == nil && ws > 0 {
				state.cfg.Trend.WindowSeconds = ws
			}
			if mp, err := strconv.Atoi(maxPointsEntry.Text); err == nil && mp > 1 {
				state.cfg.Trend.MaxPoints = mp
			}
			if err := state.cfg.Save("config.yaml"); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save config: %w", err), state.window)
			}
			// Recreate the trend window with new config; applies on next connect
			state.history = trend.New(windowDuration(state.cfg))
			state.view.spark = trend.NewSparkline(state.cfg.Trend.MaxPoints)
		},
	}

	return container.NewTabItem("Trend", form)
}

// createOutputsTab creates the Outputs configuration tab.
func createOutputsTab(state *appState) *container.TabItem {
	consoleCheck := widget.NewCheck("Print readings to stdout", nil)
	consoleCheck.SetChecked(state.cfg.Outputs.Console)

	mqttCheck := widget.NewCheck("Publish readings over MQTT", nil)
	mqttCheck.SetChecked(state.cfg.Outputs.MQTT.Enabled)

	brokerEntry := widget.NewEntry()
	brokerEntry.SetText(state.cfg.Outputs.MQTT.Broker)

	topicEntry := widget.NewEntry()
	topicEntry.SetText(state.cfg.Outputs.MQTT.Topic)

	clientIDEntry := widget.NewEntry()
	clientIDEntry.SetText(state.cfg.Outputs.MQTT.ClientID)

	usernameEntry := widget.NewEntry()
	usernameEntry.SetText(state.cfg.Outputs.MQTT.Username)

	passwordEntry := widget.NewPasswordEntry()
	passwordEntry.SetText(state.cfg.Outputs.MQTT.Password)

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Console", Widget: consoleCheck},
			{Text: "MQTT", Widget: mqttCheck},
			{Text: "Broker", Widget: brokerEntry},
			{Text: "Topic", Widget: topicEntry},
			{Text: "Client ID", Widget: clientIDEntry},
			{Text: "Username", Widget: usernameEntry},
			{Text: "Password", Widget: passwordEntry},
		},
		OnSubmit: func() {
			state.cfg.Outputs.Console = consoleCheck.Checked
			state.cfg.Outputs.MQTT.Enabled = mqttCheck.Checked
			state.cfg.Outputs.MQTT.Broker = brokerEntry.Text
			state.cfg.Outputs.MQTT.Topic = topicEntry.Text
			state.cfg.Outputs.MQTT.ClientID = clientIDEntry.Text
			state.cfg.Outputs.MQTT.Username = usernameEntry.Text
			state.cfg.Outputs.MQTT.Password = passwordEntry.Text
			if err := state.cfg.Save("config.yaml"); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save config: %w", err), state.window)
			}
			// Targets rebuild on next connect
		},
	}

	return container.NewTabItem("Outputs", form)
}

// createMirrorTab creates the panel mirror configuration tab.
func createMirrorTab(state *appState) *container.TabItem {
	enabledCheck := widget.NewCheck("Drive the panel in headless mode", nil)
	enabledCheck.SetChecked(state.cfg.Mirror.Enabled)

	busEntry := widget.NewEntry()
	busEntry.SetText(state.cfg.Mirror.Bus)
	busEntry.SetPlaceHolder("empty = platform default")

	addressEntry := widget.NewEntry()
	addressEntry.SetText(fmt.Sprintf("%#02x", state.cfg.Mirror.Address))

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Headless Mirror", Widget: enabledCheck},
			{Text: "I2C Bus", Widget: busEntry},
			{Text: "Address", Widget: addressEntry},
		},
		OnSubmit: func() {
			state.cfg.Mirror.Enabled = enabledCheck.Checked
			state.cfg.Mirror.Bus = busEntry.Text
			if addr, err := strconv.ParseUint(addressEntry.Text, 0, 8); err == nil {
				state.cfg.Mirror.Address = uint8(addr)
			}
			if err := state.cfg.Save("config.yaml"); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save config: %w", err), state.window)
			}
		},
	}

	return container.NewTabItem("Mirror", form)
}

// createMockTab creates the simulated station configuration tab.
func createMockTab(state *appState) *container.TabItem {
	biasEntry := widget.NewEntry()
	biasEntry.SetText(fmt.Sprintf("%.1f", state.cfg.Mock.BiasC))

	noiseEntry := widget.NewEntry()
	noiseEntry.SetText(fmt.Sprintf("%.2f", state.cfg.Mock.NoiseC))

	periodEntry := widget.NewEntry()
	periodEntry.SetText(state.cfg.Mock.Period.String())

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Bias (°C)", Widget: biasEntry},
			{Text: "Noise (°C)", Widget: noiseEntry},
			{Text: "Period", Widget: periodEntry},
		},
		OnSubmit: func() {
			if bias, err := strconv.ParseFloat(biasEntry.Text, 64); err == nil {
				state.cfg.Mock.BiasC = bias
			}
			if noise, err := strconv.ParseFloat(noiseEntry.Text, 64); err == nil {
				state.cfg.Mock.NoiseC = noise
			}
			if p, err := time.ParseDuration(periodEntry.Text); err == nil {
				state.cfg.Mock.Period = p
			}
			if err := state.cfg.Save("config.yaml"); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save config: %w", err), state.window)
			}
		},
	}

	return container.NewTabItem("Mock", form)
}
