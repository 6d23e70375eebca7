package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/diamonddb/diamond-node/pkg/catalog"
	"github.com/diamonddb/diamond-node/pkg/engine"
	"github.com/spf13/cobra"
)

// The reply written for every message read by the serve command.
type messageResponse struct {
	Success bool                `json:"success"`
	Data    any                 `json:"data,omitempty"`
	Error   string              `json:"error,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

func NewServeCmd() *cobra.Command {
	return NewCommand(
		"serve", "Answer JSON messages read line by line from stdin",
	).WithArgs(cobra.NoArgs).WithRunE(func(cmd *cobra.Command, args []string, e *engine.Engine) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		done := make(chan struct{})

		go func() {
			defer close(done)
			e.Run(ctx)
		}()

		defer func() {
			cancel()
			<-done
		}()

		scanner := bufio.NewScanner(cmd.InOrStdin())
		scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
		encoder := json.NewEncoder(cmd.OutOrStdout())

		for scanner.Scan() {
			line := scanner.Bytes()

			if len(line) == 0 {
				continue
			}

			var message engine.Message

			if err := json.Unmarshal(line, &message); err != nil {
				if err := encoder.Encode(messageResponse{Error: "invalid message: " + err.Error()}); err != nil {
					return err
				}

				continue
			}

			if err := encoder.Encode(newMessageResponse(e.Message(ctx, message))); err != nil {
				return err
			}
		}

		if err := scanner.Err(); err != nil {
			slog.Error("Error reading messages", "error", err)
			return err
		}

		return nil
	}).Build()
}

func newMessageResponse(result engine.Result) messageResponse {
	response := messageResponse{
		Success: result.Success,
		Data:    result.Data,
	}

	if result.Error != nil {
		response.Error = result.Error.Error()

		var validationError *catalog.ValidationError

		if errors.As(result.Error, &validationError) {
			response.Errors = validationError.Errors
		}
	}

	return response
}
