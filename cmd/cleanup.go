package cmd

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/postforge/media-mirror/pkg/cleanup"
)

func cleanupCmd() *cobra.Command {
	var (
		recordsPath string
		once        bool
	)
	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "delete post folders past their retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cfg, err := loadConfig(cfgFile)
			if err != nil {
				return err
			}
			_, folder, err := buildStores(ctx, cfg)
			if err != nil {
				return err
			}
			records := &fileRecordStore{path: recordsPath}
			s := cleanup.NewSweeper(records, folder,
				time.Duration(cfg.RetentionHours)*time.Hour,
				time.Duration(cfg.SweepMinutes)*time.Minute)
			if once {
				return s.Sweep(ctx)
			}
			s.Run(ctx)
			return nil
		},
	}
	cmd.Flags().StringVar(&recordsPath, "records", "./posts.json", "scheduled post records file")
	cmd.Flags().BoolVar(&once, "once", false, "run a single sweep pass and exit")
	return cmd
}

// fileRecordStore is a flat-file RecordStore so the sweep can run
// without the relational persistence collaborator.
type fileRecordStore struct {
	mu   sync.Mutex
	path string
}

type postRecord struct {
	cleanup.PostRecord
	Status string `json:"status,omitempty"`
}

func (s *fileRecordStore) FindExpired(ctx context.Context, before time.Time) ([]cleanup.PostRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs, err := s.load()
	if err != nil {
		return nil, err
	}
	var out []cleanup.PostRecord
	for _, r := range recs {
		if r.Status != "deleted" && r.ScheduledAt.Before(before) {
			out = append(out, r.PostRecord)
		}
	}
	return out, nil
}

func (s *fileRecordStore) MarkDeleted(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs, err := s.load()
	if err != nil {
		return err
	}
	found := false
	for i := range recs {
		if recs[i].ID == id {
			recs[i].Status = "deleted"
			found = true
		}
	}
	if !found {
		return errors.Errorf("no record %s", id)
	}
	return s.save(recs)
}

func (s *fileRecordStore) load() ([]postRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	var recs []postRecord
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, errors.Wrap(err, "parse records file")
	}
	return recs, nil
}

func (s *fileRecordStore) save(recs []postRecord) error {
	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}
