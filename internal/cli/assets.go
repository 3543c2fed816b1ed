package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Nakul-Jaglan/thob3d-assignment/internal/catalog"
	"github.com/Nakul-Jaglan/thob3d-assignment/internal/models"
)

var (
	listSearch   string
	listTag      string
	listCategory string
	listSort     string
	listPerPage  int
	listPage     int
	listJSON     bool

	createName        string
	createURL         string
	createFile        string
	createImage       string
	createDescription string
	createCategory    string
	createTags        string
)

var assetsCmd = &cobra.Command{
	Use:     "assets",
	Short:   "Browse and manage assets",
	Aliases: []string{"asset"},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initClient(cmd, args); err != nil {
			return err
		}
		return requireToken()
	},
}

var assetsListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List assets with local search, filter, sort and paging",
	Aliases: []string{"ls"},
	Example: `  catalogctl assets list --tag ui
  catalogctl assets list --search sunset --sort name-asc --per-page 0`,
	RunE: runAssetsList,
}

var assetsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one asset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := apiClient.GetAsset(commandContext(cmd), args[0])
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), assetDetail(a))
		return nil
	},
}

var assetsDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Short:   "Permanently delete an asset you own",
	Aliases: []string{"rm"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := apiClient.DeleteAsset(commandContext(cmd), args[0]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), formatSuccess("Deleted "+args[0]))
		return nil
	},
}

var assetsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Upload files and create an asset record",
	Example: `  catalogctl assets create --name Chair --file chair.glb --image chair.png --tags "furniture, wood"
  catalogctl assets create --name Logo --url https://cdn.example.com/logo.png --category design`,
	RunE: runAssetsCreate,
}

func init() {
	f := assetsListCmd.Flags()
	f.StringVar(&listSearch, "search", "", "match name or description (case-insensitive)")
	f.StringVar(&listTag, "tag", "", "match any tag containing this text")
	f.StringVar(&listCategory, "category", "", "exact category: photo, video, audio, design, icon")
	f.StringVar(&listSort, "sort", "", "name-asc or name-desc")
	f.IntVar(&listPerPage, "per-page", catalog.DefaultPerPage, "page size, 0 shows everything")
	f.IntVar(&listPage, "page", 1, "page number")
	f.BoolVar(&listJSON, "json", false, "print the page as JSON")

	c := assetsCreateCmd.Flags()
	c.StringVar(&createName, "name", "", "asset name")
	c.StringVar(&createURL, "url", "", "asset file URL when nothing is uploaded")
	c.StringVar(&createFile, "file", "", "asset file to upload")
	c.StringVar(&createImage, "image", "", "preview image to upload")
	c.StringVar(&createDescription, "description", "", "description")
	c.StringVar(&createCategory, "category", "", "category")
	c.StringVar(&createTags, "tags", "", "comma-separated tags")
	_ = assetsCreateCmd.MarkFlagRequired("name")
	assetsCreateCmd.MarkFlagsMutuallyExclusive("url", "file")

	assetsCmd.AddCommand(assetsListCmd)
	assetsCmd.AddCommand(assetsGetCmd)
	assetsCmd.AddCommand(assetsDeleteCmd)
	assetsCmd.AddCommand(assetsCreateCmd)
}

func runAssetsList(cmd *cobra.Command, args []string) error {
	all, err := apiClient.ListAssets(commandContext(cmd))
	if err != nil {
		return err
	}

	state := catalog.NewState()
	state.SetSearch(listSearch)
	state.SetTag(listTag)
	state.SetCategory(models.Category(strings.ToLower(listCategory)))
	state.SetSort(listSort)
	state.SetPerPage(listPerPage)
	state.SetPage(listPage)
	page := state.Apply(all)

	out := cmd.OutOrStdout()
	if listJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(page)
	}

	if page.Total == 0 {
		fmt.Fprintln(out, formatInfo("No assets match"))
		return nil
	}
	if len(page.Items) == 0 {
		fmt.Fprintln(out, formatInfo(fmt.Sprintf("Page %d is empty, there are %d pages", page.Page, page.TotalPages)))
		return nil
	}

	fmt.Fprintln(out, assetTable(page.Items))
	fmt.Fprintln(out, formatMuted(fmt.Sprintf("Page %d of %d · %d matching · %d total", page.Page, page.TotalPages, page.Total, len(all))))
	return nil
}

func runAssetsCreate(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	fields := map[string]any{
		"name":        createName,
		"description": createDescription,
		"category":    createCategory,
		"tags":        createTags,
		"url":         createURL,
	}

	if createFile != "" || createImage != "" {
		if createFile == "" && createURL == "" {
			return fmt.Errorf("--file or --url is required")
		}
		uploaded, err := apiClient.Upload(ctx, createImage, createFile)
		if err != nil {
			return fmt.Errorf("upload: %w", err)
		}
		if uploaded.Image != nil {
			fields["image"] = uploaded.Image.PublicURL
		}
		if uploaded.File != nil {
			fields["url"] = uploaded.File.PublicURL
			fields["format"] = strings.TrimPrefix(strings.ToLower(filepath.Ext(createFile)), ".")
			if info, err := os.Stat(createFile); err == nil {
				fields["size"] = info.Size()
			}
		}
	} else if createURL == "" {
		return fmt.Errorf("--file or --url is required")
	}

	a, err := apiClient.CreateAsset(ctx, fields)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), formatSuccess("Created "+a.Name))
	fmt.Fprintln(cmd.OutOrStdout(), formatMuted(a.ID.String()))
	return nil
}
