package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Jokero/webpack.js.org/internal/content"
	"github.com/Jokero/webpack.js.org/internal/progress"
	"github.com/Jokero/webpack.js.org/internal/site"
)

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Manage the content tree",
}

var contentBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Generate the content tree and search index from markdown sources",
	Long: `Walks the markdown content directory, reads each file's front matter and
headings, and writes the content tree file and the search index.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		var reporter progress.Reporter = progress.Discard{}
		if !quietBuild {
			reporter = progress.NewReporter("Reading content")
		}

		root, err := content.Build(content.BuildOptions{
			Dir:          cfg.ContentDir,
			SourcePrefix: cfg.SourcePrefix,
			Title:        cfg.SiteTitle,
			Include:      cfg.Include,
			Exclude:      cfg.Exclude,
			Reporter:     reporter,
		})
		if err != nil {
			return fmt.Errorf("building content tree: %w", err)
		}

		if err := content.Save(root, cfg.ContentFile); err != nil {
			return fmt.Errorf("writing content tree: %w", err)
		}
		entries := site.BuildSearchIndex(root)
		if err := site.WriteSearchIndex(entries, cfg.SearchIndexPath()); err != nil {
			return fmt.Errorf("writing search index: %w", err)
		}

		pages := 0
		root.Walk(func(n *content.Node, _ int) {
			if !n.IsDirectory() {
				pages++
			}
		})
		fmt.Printf("Wrote %s (%d pages)\n", cfg.ContentFile, pages)
		fmt.Printf("Wrote %s (%d entries)\n", cfg.SearchIndexPath(), len(entries))
		return nil
	},
}

var quietBuild bool

func init() {
	contentBuildCmd.Flags().BoolVarP(&quietBuild, "quiet", "q", false, "suppress progress output")
	contentCmd.AddCommand(contentBuildCmd)
	rootCmd.AddCommand(contentCmd)
}
