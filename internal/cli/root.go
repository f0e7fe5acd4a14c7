package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/YasinHossain/quran-app-sub003/internal/config"
	"github.com/YasinHossain/quran-app-sub003/internal/persist/sqlite"
	"github.com/YasinHossain/quran-app-sub003/internal/quranapi"
	"github.com/YasinHossain/quran-app-sub003/internal/reconcile"
	"github.com/YasinHossain/quran-app-sub003/internal/store"
	"github.com/spf13/cobra"
)

// NewRootCommand creates the root command.
func NewRootCommand(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "quranmarks",
		Short:   "Quranmarks - bookmark and collection store for Quran verses",
		Long:    "Quranmarks manages saved verses: bookmark folders, pinned quick-access verses, last-read positions and memorization plans, persisted locally and enriched from the content API.",
		Version: version,
	}

	cmd.PersistentFlags().String("config", "", "path to config file")

	cmd.AddCommand(NewFoldersCommand())
	cmd.AddCommand(NewBookmarkCommand())
	cmd.AddCommand(NewPinCommand())
	cmd.AddCommand(NewPinsCommand())
	cmd.AddCommand(NewLastReadCommand())
	cmd.AddCommand(NewMemorizeCommand())
	cmd.AddCommand(NewSnapshotCommand())

	return cmd
}

// openStore wires the store, the API client and the reconciliation service
// from configuration. The returned closer flushes pending writes and tears
// the service down.
func openStore(cmd *cobra.Command) (*store.Store, func(), error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	if dir := filepath.Dir(cfg.StoragePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create storage directory: %w", err)
		}
	}

	adapter, err := sqlite.New(cfg.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open storage: %w", err)
	}

	s := store.New(adapter, store.Options{Debounce: cfg.Debounce})

	client := quranapi.New(cfg.APIBaseURL,
		quranapi.WithTranslations(cfg.TranslationIDs...),
		quranapi.WithWordLanguage(cfg.WordLanguage),
	)
	svc := reconcile.New(client, s)
	s.SetReconciler(svc)

	// Give in-flight metadata fetches a chance to land before teardown;
	// anything slower is retried on the next run via SetReconciler.
	closer := func() {
		svc.Drain(5 * time.Second)
		svc.Close()
		s.Flush()
		adapter.Close()
	}
	return s, closer, nil
}
