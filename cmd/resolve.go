package cmd

import (
	"context"
	"os"

	"github.com/fatih/color"
	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/postforge/media-mirror/commons"
	"github.com/postforge/media-mirror/pkg/resolver"
)

func resolveCmd() *cobra.Command {
	var (
		objURL  string
		itemID  string
		srcLink string
		out     string
	)
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "fetch one item's bytes via the retrieval preference order",
		RunE: func(cmd *cobra.Command, args []string) error {
			if objURL == "" && itemID == "" && srcLink == "" {
				return errors.New("need at least one of --object-url, --item-id, --src-link")
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cfg, err := loadConfig(cfgFile)
			if err != nil {
				return err
			}
			obj, folder, err := buildStores(ctx, cfg)
			if err != nil {
				return err
			}
			res := resolver.NewResolver(obj, folder)
			data, err := res.Resolve(ctx, commons.ReplicatedItem{
				ObjectStoreURL: objURL,
				FolderItemID:   itemID,
				SrcLink:        srcLink,
			})
			if err != nil {
				return err
			}
			if out == "" || out == "-" {
				_, err = os.Stdout.Write(data)
				return err
			}
			if err := os.WriteFile(out, data, 0644); err != nil {
				return err
			}
			color.Green("wrote %d bytes to %s", len(data), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&objURL, "object-url", "", "object store public url")
	cmd.Flags().StringVar(&itemID, "item-id", "", "folder store item id")
	cmd.Flags().StringVar(&srcLink, "src-link", "", "direct http url fallback")
	cmd.Flags().StringVar(&out, "out", "-", "output file, - for stdout")
	return cmd
}
