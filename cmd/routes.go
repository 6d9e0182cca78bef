package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Jokero/webpack.js.org/internal/content"
	"github.com/Jokero/webpack.js.org/internal/site"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List the routes the site serves",
	Long:  `Loads the content tree and prints the route table in match order.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		source, err := content.Open(cfg.ContentFile)
		if err != nil {
			return err
		}

		s := site.New(source, nil, site.Config{
			Title:       cfg.SiteTitle,
			FixedRoutes: cfg.FixedRoutes,
			Nav:         cfg.Nav,
		}, nil)

		routes := s.Routes()
		width := 0
		for _, r := range routes {
			width = max(width, len(r.Pattern))
		}
		for _, r := range routes {
			fmt.Printf("%-*s  %-9s  %s\n", width, r.Pattern, r.Kind, r.Title)
		}
		fmt.Printf("\n%d routes\n", len(routes))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(routesCmd)
}
