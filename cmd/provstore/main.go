package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	provstore "github.com/openprovenance/provstore-go"
	"github.com/openprovenance/provstore-go/prov"
)

var apiURL string
var username string
var apiKey string
var debug bool

func dbg(v interface{}) {
	if !debug {
		return
	}
	log.Debug().Interface("data", v).Msg("debug output")
}

func main() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "provstore",
		Short: "Command line interface to the ProvStore provenance repository",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Initialize logger
			zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
			log.Logger = log.Output(zerolog.ConsoleWriter{
				Out:        os.Stderr,
				TimeFormat: "2006-01-02 15:04:05",
				NoColor:    true,
			})

			// Set log level based on debug flag
			if debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
				_ = os.Setenv("PROVSTORE_DEBUG", "true")
				log.Debug().Msg("debug logging enabled")
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", getEnv("PROVSTORE_BASE_URL", provstore.DefaultBaseURL), "Base URL of the ProvStore API")
	rootCmd.PersistentFlags().StringVar(&username, "username", getEnv("PROVSTORE_USERNAME", ""), "ProvStore username")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", getEnv("PROVSTORE_API_KEY", ""), "ProvStore API key")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable verbose debug output")

	// Sub-commands
	rootCmd.AddCommand(newSubmitCmd())
	rootCmd.AddCommand(newGetCmd())
	rootCmd.AddCommand(newMetaCmd())
	rootCmd.AddCommand(newAddBundleCmd())
	rootCmd.AddCommand(newDeleteCmd())

	return rootCmd
}

func newClient() (*provstore.Client, error) {
	return provstore.New(apiURL, provstore.WithCredentials(username, apiKey))
}

// readDocument loads a PROV-JSON document from path, or from stdin when
// path is empty or "-".
func readDocument(path string) (*prov.Document, error) {
	var data []byte
	var err error
	if path == "" || path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	return prov.FromJSON(data)
}

func newSubmitCmd() *cobra.Command {
	var file, identifier string
	var public bool

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a PROV-JSON document to the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			if identifier == "" {
				identifier = "doc-" + uuid.NewString()
			}

			log.Debug().
				Str("file", file).
				Str("identifier", identifier).
				Bool("public", public).
				Str("api_url", apiURL).
				Msg("submitting document")

			doc, err := readDocument(file)
			if err != nil {
				return err
			}

			c, err := newClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			start := time.Now()
			id, err := c.SubmitDocument(ctx, doc, identifier, public)
			elapsed := time.Since(start)

			if err != nil {
				log.Error().
					Err(err).
					Str("identifier", identifier).
					Dur("elapsed", elapsed).
					Msg("submit document failed")
				return err
			}

			log.Debug().
				Int("document_id", id).
				Str("identifier", identifier).
				Dur("elapsed", elapsed).
				Msg("submit document completed")

			fmt.Printf("Document submitted: %d (%s)\n", id, identifier)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Path to a PROV-JSON file, or - for stdin")
	cmd.Flags().StringVar(&identifier, "id", "", "Document identifier (defaults to a generated one)")
	cmd.Flags().BoolVar(&public, "public", false, "Make the document publicly readable")

	return cmd
}

func newGetCmd() *cobra.Command {
	var docID int
	var format, view string
	var flattened bool

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Fetch a document, decoded PROV-JSON by default or raw in --format",
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Debug().
				Int("document_id", docID).
				Str("format", format).
				Bool("flattened", flattened).
				Str("view", view).
				Str("api_url", apiURL).
				Msg("getting document")

			c, err := newClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			opts := &provstore.GetOptions{Flattened: flattened, View: provstore.View(view)}

			start := time.Now()
			if format != "" {
				body, err := c.GetDocumentRaw(ctx, docID, format, opts)
				if err != nil {
					log.Error().Err(err).Int("document_id", docID).Msg("get document failed")
					return err
				}
				log.Debug().
					Int("document_id", docID).
					Dur("elapsed", time.Since(start)).
					Int("bytes", len(body)).
					Msg("get document completed")
				_, err = cmd.OutOrStdout().Write(body)
				return err
			}

			doc, err := c.GetDocument(ctx, docID, opts)
			if err != nil {
				log.Error().Err(err).Int("document_id", docID).Msg("get document failed")
				return err
			}
			log.Debug().
				Int("document_id", docID).
				Dur("elapsed", time.Since(start)).
				Msg("get document completed")

			dbg(doc.Container())
			b, _ := json.MarshalIndent(doc.Container(), "", "  ")
			fmt.Println(string(b))
			return nil
		},
	}

	cmd.Flags().IntVar(&docID, "id", 0, "Document ID (required)")
	cmd.Flags().StringVar(&format, "format", "", "Raw output format (provn, xml, ...); empty decodes PROV-JSON")
	cmd.Flags().BoolVar(&flattened, "flattened", false, "Fetch the flattened rendering")
	cmd.Flags().StringVar(&view, "view", "", "Provenance view (data, process, responsibility)")

	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func newMetaCmd() *cobra.Command {
	var docID int

	cmd := &cobra.Command{
		Use:   "meta",
		Short: "Fetch the metadata record for a document",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			meta, err := c.GetDocumentMeta(ctx, docID)
			if err != nil {
				log.Error().Err(err).Int("document_id", docID).Msg("get document meta failed")
				return err
			}
			dbg(meta)
			b, _ := json.MarshalIndent(meta, "", "  ")
			fmt.Println(string(b))
			return nil
		},
	}

	cmd.Flags().IntVar(&docID, "id", 0, "Document ID (required)")

	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func newAddBundleCmd() *cobra.Command {
	var docID int
	var file, bundleID string

	cmd := &cobra.Command{
		Use:   "add-bundle",
		Short: "Attach a PROV-JSON bundle to an existing document",
		RunE: func(cmd *cobra.Command, args []string) error {
			if bundleID == "" {
				bundleID = "bundle-" + uuid.NewString()
			}

			log.Debug().
				Int("document_id", docID).
				Str("file", file).
				Str("bundle_id", bundleID).
				Str("api_url", apiURL).
				Msg("adding bundle")

			bundle, err := readDocument(file)
			if err != nil {
				return err
			}

			c, err := newClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			start := time.Now()
			if err := c.AddBundle(ctx, docID, bundle, bundleID); err != nil {
				log.Error().
					Err(err).
					Int("document_id", docID).
					Str("bundle_id", bundleID).
					Dur("elapsed", time.Since(start)).
					Msg("add bundle failed")
				return err
			}

			log.Debug().
				Int("document_id", docID).
				Str("bundle_id", bundleID).
				Dur("elapsed", time.Since(start)).
				Msg("add bundle completed")

			fmt.Printf("Bundle added: %s\n", bundleID)
			return nil
		},
	}

	cmd.Flags().IntVar(&docID, "id", 0, "Document ID (required)")
	cmd.Flags().StringVar(&file, "file", "", "Path to a PROV-JSON file, or - for stdin")
	cmd.Flags().StringVar(&bundleID, "bundle-id", "", "Bundle identifier (defaults to a generated one)")

	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func newDeleteCmd() *cobra.Command {
	var docID int

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a document and its bundles from the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			if err := c.DeleteDocument(ctx, docID); err != nil {
				log.Error().Err(err).Int("document_id", docID).Msg("delete document failed")
				return err
			}
			fmt.Println("Document deleted")
			return nil
		},
	}

	cmd.Flags().IntVar(&docID, "id", 0, "Document ID (required)")

	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
