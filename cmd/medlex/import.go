package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/medlex/medlex-api/internal/api"
	"github.com/medlex/medlex-api/internal/domain"
)

// termFileItem is one term in an import file.
type termFileItem struct {
	Term          string   `yaml:"term"          validate:"required,max=255"`
	Meaning       string   `yaml:"meaning"       validate:"required,max=10000"`
	Pronunciation string   `yaml:"pronunciation" validate:"max=255"`
	Categories    []string `yaml:"categories"    validate:"dive,max=100"`
}

// phraseFileItem is one phrase in an import file.
type phraseFileItem struct {
	Phrase      string   `yaml:"phrase"      validate:"required,max=255"`
	Explanation string   `yaml:"explanation" validate:"required,max=10000"`
	Categories  []string `yaml:"categories"  validate:"dive,max=100"`
}

// importFile is the mapping form of an import file. A bare list of items
// is accepted too.
type importFile[T any] struct {
	GlobalCategories []string `yaml:"globalCategories"`
	Items            []T      `yaml:"items"`
}

var fileValidator = newFileValidator()

func newFileValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (c *cli) importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Upload terms or phrases from a JSON or YAML file",
		Long: `Upload terms or phrases from a JSON or YAML file. The file holds either a
list of items or a mapping with "items" and optional "globalCategories".
Categories are created on the server when they do not exist yet.

Items missing a required field are skipped before upload.`,
	}
	cmd.AddCommand(c.importTermsCmd(), c.importPhrasesCmd())
	return cmd
}

// importFlags are shared by both import subcommands.
type importFlags struct {
	categories []string
	dryRun     bool
}

func (f *importFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&f.categories, "category", "c", nil,
		"category name added to every item (repeatable)")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "validate the file without uploading")
}

func (c *cli) importTermsCmd() *cobra.Command {
	var flags importFlags

	cmd := &cobra.Command{
		Use:   "terms <file>",
		Short: "Import terms",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := readImportFile[termFileItem](args[0])
			if err != nil {
				return err
			}
			valid, skipped := validItems(cmd.ErrOrStderr(), file.Items)
			if len(valid) == 0 {
				return errors.New("no valid terms to import")
			}
			if flags.dryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "%d terms valid, %d skipped\n", len(valid), skipped)
				return nil
			}

			req := api.TermImportRequest{
				GlobalCategories: append(file.GlobalCategories, flags.categories...),
				Items:            make([]api.TermImportItem, len(valid)),
			}
			for i, it := range valid {
				req.Items[i] = api.TermImportItem{
					Term:          it.Term,
					Meaning:       it.Meaning,
					Pronunciation: it.Pronunciation,
					Categories:    it.Categories,
				}
			}

			resp, err := c.client.ImportTerms(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("import failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d terms imported successfully (%d skipped)\n",
				resp.Imported, resp.Skipped+skipped)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func (c *cli) importPhrasesCmd() *cobra.Command {
	var flags importFlags

	cmd := &cobra.Command{
		Use:   "phrases <file>",
		Short: "Import phrases",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := readImportFile[phraseFileItem](args[0])
			if err != nil {
				return err
			}
			valid, skipped := validItems(cmd.ErrOrStderr(), file.Items)
			if len(valid) == 0 {
				return errors.New("no valid phrases to import")
			}
			if flags.dryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "%d phrases valid, %d skipped\n", len(valid), skipped)
				return nil
			}

			req := api.PhraseImportRequest{
				GlobalCategories: append(file.GlobalCategories, flags.categories...),
				Items:            make([]api.PhraseImportItem, len(valid)),
			}
			for i, it := range valid {
				req.Items[i] = api.PhraseImportItem{
					Phrase:      it.Phrase,
					Explanation: it.Explanation,
					Categories:  it.Categories,
				}
			}

			resp, err := c.client.ImportPhrases(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("import failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d phrases imported successfully (%d skipped)\n",
				resp.Imported, resp.Skipped+skipped)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

// readImportFile decodes path as YAML, which also covers JSON.
func readImportFile[T any](path string) (*importFile[T], error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read import file: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidFormat, path, err)
	}
	if len(doc.Content) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", domain.ErrInvalidFormat, path)
	}

	var file importFile[T]
	root := doc.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		err = root.Decode(&file.Items)
	case yaml.MappingNode:
		err = root.Decode(&file)
	default:
		return nil, fmt.Errorf("%w: %s must hold a list of items or an items mapping", domain.ErrInvalidFormat, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidFormat, path, err)
	}
	return &file, nil
}

// validItems trims every item and keeps the ones that pass validation,
// reporting the others on w.
func validItems[T any](w io.Writer, items []T) (valid []T, skipped int) {
	valid = make([]T, 0, len(items))
	for i, item := range items {
		trimStrings(&item)
		if err := fileValidator.Struct(item); err != nil {
			skipped++
			fmt.Fprintf(w, "warning: item %d skipped: %s\n", i+1, describeValidation(err))
			continue
		}
		valid = append(valid, item)
	}
	return valid, skipped
}

// trimStrings trims the top-level string fields of the struct ptr points to.
func trimStrings(ptr any) {
	v := reflect.ValueOf(ptr).Elem()
	for i := 0; i < v.NumField(); i++ {
		if f := v.Field(i); f.Kind() == reflect.String && f.CanSet() {
			f.SetString(strings.TrimSpace(f.String()))
		}
	}
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fe.Field()+" is invalid")
		}
	}
	return strings.Join(msgs, ", ")
}
