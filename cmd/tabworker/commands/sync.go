package commands

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.trai.ch/tabworker/internal/app"
	"go.trai.ch/tabworker/internal/core/domain"
	"go.trai.ch/zerr"
)

var errSyncSource = zerr.New("exactly one of --manifest or --dir is required")

func (c *CLI) newSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Store a session manifest and print the assets missing from its bucket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			manifestPath, _ := cmd.Flags().GetString("manifest")
			dir, _ := cmd.Flags().GetString("dir")
			if (manifestPath == "") == (dir == "") {
				return errSyncSource
			}

			out := cmd.OutOrStdout()
			if manifestPath != "" {
				m, err := readManifest(cmd.InOrStdin(), manifestPath)
				if err != nil {
					return err
				}
				result, err := c.app.Sync(cmd.Context(), m)
				if err != nil {
					return err
				}
				return printJSON(out, result)
			}

			opts := app.SyncDirOptions{Dir: dir}
			opts.Bucket, _ = cmd.Flags().GetString("bucket")
			opts.SessionID, _ = cmd.Flags().GetString("session")
			opts.IndexFile, _ = cmd.Flags().GetString("index")
			opts.Upload, _ = cmd.Flags().GetBool("upload")

			if watch, _ := cmd.Flags().GetBool("watch"); watch {
				return c.app.Watch(cmd.Context(), opts, func(result domain.SyncResult) error {
					return printJSON(out, result)
				})
			}

			result, err := c.app.SyncDir(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return printJSON(out, result)
		},
	}
	cmd.Flags().StringP("manifest", "m", "", "Manifest JSON file to sync (- reads stdin)")
	cmd.Flags().StringP("dir", "d", "", "Local asset directory to build the manifest from")
	cmd.Flags().StringP("bucket", "b", "", "Bucket of the manifest built from --dir")
	cmd.Flags().StringP("session", "s", "", "Session identifier of the manifest built from --dir")
	cmd.Flags().String("index", "index.html", "Index file inlined into the manifest built from --dir")
	cmd.Flags().Bool("upload", false, "Upload the missing assets after syncing")
	cmd.Flags().BoolP("watch", "w", false, "Re-sync whenever files below --dir change")
	return cmd
}

func readManifest(stdin io.Reader, path string) (*domain.Manifest, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path) //nolint:gosec // Path is provided by the user
	}
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read manifest"), domain.MetaPath, path)
	}
	m, err := domain.DecodeManifest(data)
	if err != nil {
		return nil, zerr.With(err, domain.MetaPath, path)
	}
	return m, nil
}
