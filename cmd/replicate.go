package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/postforge/media-mirror/commons"
	"github.com/postforge/media-mirror/pkg/replicate"
	"github.com/postforge/media-mirror/pkg/retry"
	"github.com/postforge/media-mirror/sources"
)

func replicateCmd() *cobra.Command {
	var (
		srcArgs []string
		caption string
		kind    string
		workers int
	)
	cmd := &cobra.Command{
		Use:   "replicate",
		Short: "replicate a post's media into both storage tiers",
		Long:  "Mirrors every source into the object store and the post folder, printing the resulting manifest.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(srcArgs) == 0 {
				return errors.New("at least one --source is required")
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cfg, err := loadConfig(cfgFile)
			if err != nil {
				return err
			}
			if workers > 0 {
				cfg.Workers = workers
			}
			obj, folder, err := buildStores(ctx, cfg)
			if err != nil {
				return err
			}
			r, err := replicate.NewReplicator(obj, folder, &replicate.BatchCfg{
				RootFolder: cfg.RootFolder,
				KeyPrefix:  cfg.KeyPrefix,
				Workers:    cfg.Workers,
			})
			if err != nil {
				return err
			}

			srcs := make([]sources.Source, 0, len(srcArgs))
			for _, s := range srcArgs {
				srcs = append(srcs, sources.Parse(s, sources.ParseOpts{StagingRoot: cfg.StagingRoot}))
			}

			var m *commons.Manifest
			err = retry.Do(ctx, 2, time.Second, func() error {
				var rerr error
				m, rerr = r.ReplicateBatch(ctx, srcs, caption, kind)
				var incomplete *replicate.IncompleteBatchError
				if errors.As(rerr, &incomplete) {
					// missing sources will not recover on retry
					return retry.Permanent(rerr)
				}
				return rerr
			})
			if err != nil {
				var incomplete *replicate.IncompleteBatchError
				if errors.As(err, &incomplete) {
					color.Red("batch incomplete, %d missing:", len(incomplete.Missing))
					for _, miss := range incomplete.Missing {
						fmt.Printf("  %s\t%s\n", miss.Source.Ref(), miss.Reason)
					}
				}
				return err
			}

			color.Green("folder %s", m.FolderID)
			for _, it := range m.Items {
				url := it.ObjectStoreURL
				if url == "" {
					url = "-"
				}
				fmt.Printf("%s\t%s\t%s\t%s\n", it.FileName, it.MimeType, it.FolderItemID, url)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&srcArgs, "source", []string{}, "media source urls or paths")
	cmd.Flags().StringVar(&caption, "caption", "", "post caption text")
	cmd.Flags().StringVar(&kind, "kind", "", "post kind prefix for the folder name (static, carousel, video)")
	cmd.Flags().IntVar(&workers, "workers", 0, "replication workers, 0 uses config")
	return cmd
}
