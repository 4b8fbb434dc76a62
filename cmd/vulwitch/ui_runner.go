package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"vulwitch/internal/driver"
	"vulwitch/internal/ui"
)

type lowerOutcome struct {
	batch *driver.Batch
	err   error
}

// runLowerWithUI lowers dir while a progress model follows the driver events.
func runLowerWithUI(ctx context.Context, dir string, opts driver.Options) (*driver.Batch, error) {
	files, err := driver.ListSources(dir, opts.Extensions)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan driver.Event, 256)
	outcomeCh := make(chan lowerOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = driver.ChannelSink{Ch: events}
		batch, err := driver.LowerDir(ctx, dir, optsCopy)
		outcomeCh <- lowerOutcome{batch: batch, err: err}
		close(events)
	}()

	model := ui.NewProgressModel("lowering "+dir, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr), tea.WithContext(ctx))
	_, uiErr := program.Run()
	// после ctrl+c или ошибки UI модель больше не читает канал: останавливаем
	// драйвер и дочитываем события, чтобы он не встал на отправке
	cancel()
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.batch, uiErr
	}
	return outcome.batch, outcome.err
}
