package main

import (
	"fmt"
	"image"
	"os"
	"text/tabwriter"

	"github.com/Davidmarkwilcox/ScannerApp/internal/codec"
	"github.com/Davidmarkwilcox/ScannerApp/internal/config"
	"github.com/Davidmarkwilcox/ScannerApp/internal/index"
	"github.com/Davidmarkwilcox/ScannerApp/internal/layout"
	"github.com/Davidmarkwilcox/ScannerApp/internal/locks"
	"github.com/Davidmarkwilcox/ScannerApp/internal/metadata"
	"github.com/Davidmarkwilcox/ScannerApp/internal/ocr"
	"github.com/Davidmarkwilcox/ScannerApp/internal/pages"
	"github.com/Davidmarkwilcox/ScannerApp/internal/store"
	"github.com/Davidmarkwilcox/ScannerApp/pkg/logging"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// systems bundles the store components the CLI commands operate on.
type systems struct {
	store  *store.Store
	index  *index.Index
	loader *pages.Loader
}

func buildSystems() (*systems, error) {
	storageCfg := config.StorageConfig{BasePath: rootPath}
	if err := storageCfg.Finalize(); err != nil {
		return nil, fmt.Errorf("storage config: %w", err)
	}

	renderCfg := config.RenderConfig{}
	if err := renderCfg.Finalize(); err != nil {
		return nil, fmt.Errorf("render config: %w", err)
	}

	logger := logging.NewWithWriter(&logging.Config{
		Level:  logging.Level(logLevel),
		Format: logging.FormatText,
	}, os.Stderr)

	lay, err := layout.New(&storageCfg)
	if err != nil {
		return nil, err
	}

	loader := pages.NewLoader(lay, logger)
	texts := ocr.NewStore(lay)
	lockTable := locks.NewKeyed()

	return &systems{
		store:  store.New(lay, loader, texts, renderCfg, lockTable, logger),
		index:  index.New(lay, lockTable, logger),
		loader: loader,
	}, nil
}

func loadPageImages(paths []string) ([]pages.Page, error) {
	imgs := make([]image.Image, 0, len(paths))
	for _, path := range paths {
		img, err := codec.DecodeImage(path)
		if err != nil {
			return nil, err
		}
		imgs = append(imgs, img)
	}
	return pages.FromImages(imgs), nil
}

func newSaveCmd() *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   "save <image...>",
		Short: "Save page images as a document draft",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sys, err := buildSystems()
			if err != nil {
				return err
			}

			docID := uuid.Nil
			if id != "" {
				if docID, err = uuid.Parse(id); err != nil {
					return fmt.Errorf("invalid id: %w", err)
				}
			}

			pgs, err := loadPageImages(args)
			if err != nil {
				return err
			}

			result, err := sys.store.SaveDraft(cmd.Context(), docID, pgs)
			if err != nil {
				return err
			}

			fmt.Printf("saved %s (%d pages) at %s\n", result.DocumentID, result.PageCount, result.RootPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "Existing document id to overwrite")
	return cmd
}

func newFinalizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "finalize <id> [image...]",
		Short: "Finalize a document into a shareable PDF",
		Long: `Finalize overwrites the canonical pages when images are supplied, or
re-renders from the persisted pages otherwise, then publishes the PDF.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sys, err := buildSystems()
			if err != nil {
				return err
			}

			docID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid id: %w", err)
			}

			var pgs []pages.Page
			if len(args) > 1 {
				pgs, err = loadPageImages(args[1:])
			} else {
				pgs, err = sys.loader.Load(cmd.Context(), docID)
			}
			if err != nil {
				return err
			}

			result, err := sys.store.Finalize(cmd.Context(), docID, pgs)
			if err != nil {
				return err
			}

			fmt.Printf("finalized %s (%d pages)\n", result.DocumentID, result.PageCount)
			return nil
		},
	}
	return cmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored documents, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sys, err := buildSystems()
			if err != nil {
				return err
			}

			docs := sys.index.List(cmd.Context())
			if len(docs) == 0 {
				fmt.Println("no documents")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tPAGES\tSTATE\tMODIFIED")
			for _, doc := range docs {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
					doc.ID, doc.Title, doc.PageCount, doc.State,
					doc.ModifiedAt.Format(metadata.TimeFormat))
			}
			return w.Flush()
		},
	}
}

func newRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <title>",
		Short: "Rename a stored document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sys, err := buildSystems()
			if err != nil {
				return err
			}

			docID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid id: %w", err)
			}

			doc, err := sys.index.Rename(cmd.Context(), docID, args[1])
			if err != nil {
				return err
			}

			fmt.Printf("renamed %s to %q\n", doc.ID, doc.Title)
			return nil
		},
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sys, err := buildSystems()
			if err != nil {
				return err
			}

			docID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid id: %w", err)
			}

			if err := sys.index.Delete(cmd.Context(), docID); err != nil {
				return err
			}

			fmt.Printf("deleted %s\n", docID)
			return nil
		},
	}
}

func newShareCmd() *cobra.Command {
	var filename string
	cmd := &cobra.Command{
		Use:   "share <id>",
		Short: "Print the shareable PDF path, generating it if needed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sys, err := buildSystems()
			if err != nil {
				return err
			}

			docID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid id: %w", err)
			}

			var path string
			if filename != "" {
				path, err = sys.store.PDFForSharingNamed(cmd.Context(), docID, filename)
			} else {
				path, err = sys.store.PDFForSharing(cmd.Context(), docID)
			}
			if err != nil {
				return err
			}

			fmt.Println(path)
			return nil
		},
	}
	cmd.Flags().StringVar(&filename, "filename", "", "Human-readable filename for the share copy")
	return cmd
}

func newPagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pages <id>",
		Short: "List the canonical page files of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sys, err := buildSystems()
			if err != nil {
				return err
			}

			docID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid id: %w", err)
			}

			paths, err := sys.store.PageImagePaths(cmd.Context(), docID)
			if err != nil {
				return err
			}

			for _, path := range paths {
				fmt.Println(path)
			}
			return nil
		},
	}
}
