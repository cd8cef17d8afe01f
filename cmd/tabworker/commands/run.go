package commands

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/spf13/cobra"
	"go.trai.ch/tabworker/internal/core/domain"
	"go.trai.ch/zerr"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run tests in a remote browser tab",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := runRequestFromFlags(cmd)
			if err != nil {
				return err
			}
			logStream, _ := cmd.Flags().GetString("log-stream")

			resp, err := c.app.RunTests(cmd.Context(), req, logStream)
			if err != nil {
				if printErr := printJSON(cmd.OutOrStdout(), domain.NewFailureResponse(err)); printErr != nil {
					return errors.Join(err, printErr)
				}
				return errors.Join(domain.ErrTestRunFailed, err)
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
	cmd.Flags().String("request", "", "Read the run request from a JSON file")
	cmd.Flags().StringP("bucket", "b", "", "Bucket holding the session manifest")
	cmd.Flags().StringP("session", "s", "", "Session identifier of the manifest")
	cmd.Flags().StringP("url", "u", "", "URL the test tab navigates to")
	cmd.Flags().StringArrayP("test", "t", nil, "Name of a test to run, in order (repeatable)")
	cmd.Flags().String("log-stream", "", "Log stream identifier stamped on results (generated when empty)")
	return cmd
}

// runRequestFromFlags reads the optional request file and overlays the explicitly set flags.
func runRequestFromFlags(cmd *cobra.Command) (domain.RunRequest, error) {
	var req domain.RunRequest

	if path, _ := cmd.Flags().GetString("request"); path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // Path is provided by the user
		if err != nil {
			return req, zerr.With(zerr.Wrap(err, "failed to read run request"), domain.MetaPath, path)
		}
		if err := json.Unmarshal(data, &req); err != nil {
			return req, zerr.With(zerr.Wrap(err, "failed to parse run request"), domain.MetaPath, path)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("bucket") {
		req.Bucket, _ = flags.GetString("bucket")
	}
	if flags.Changed("session") {
		req.SessionID, _ = flags.GetString("session")
	}
	if flags.Changed("url") {
		req.URL, _ = flags.GetString("url")
	}
	if flags.Changed("test") {
		req.TestNames, _ = flags.GetStringArray("test")
	}
	return req, nil
}
