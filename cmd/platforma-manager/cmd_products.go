package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/iyhunko/platforma-manager/internal/model"
	"github.com/iyhunko/platforma-manager/internal/repository"
	"github.com/iyhunko/platforma-manager/internal/service"
	"github.com/iyhunko/platforma-manager/internal/ui"
)

var (
	listSection string

	addInput  service.ProductInput
	addImages []string

	updateFields = map[string]*string{}
	updateImages []string
)

var updateFlagNames = []string{"title", "price", "desc", "meta", "section", "status", "link"}

func init() {
	listCmd.Flags().StringVar(&listSection, "section", "", "only list one section")

	addCmd.Flags().StringVar(&addInput.Title, "title", "", "product title (required)")
	addCmd.Flags().StringVar(&addInput.Price, "price", "", "display price")
	addCmd.Flags().StringVar(&addInput.Desc, "desc", "", "description")
	addCmd.Flags().StringVar(&addInput.Meta, "meta", "", "meta line shown under the title")
	addCmd.Flags().StringVar(&addInput.Section, "section", model.DefaultSection, "section name")
	addCmd.Flags().StringVar(&addInput.Status, "status", string(model.StatusStock), "stock or preorder")
	addCmd.Flags().StringVar(&addInput.Link, "link", "", "order link")
	addCmd.Flags().StringSliceVar(&addImages, "image", nil, "image file to copy into the product folder (repeatable)")
	_ = addCmd.MarkFlagRequired("title")

	for _, name := range updateFlagNames {
		updateFields[name] = new(string)
		updateCmd.Flags().StringVar(updateFields[name], name, "", "new "+name)
	}
	updateCmd.Flags().StringSliceVar(&updateImages, "images", nil, "replace the image list")

	rootCmd.AddCommand(listCmd, showCmd, addCmd, updateCmd, removeCmd, moveUpCmd, moveDownCmd, swapCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List products by section and order",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context(), appOptions{})
		if err != nil {
			return err
		}
		var products []*model.Product
		query := repository.NewQuery().WithSection(listSection)
		for {
			page, next := a.service.List(*query)
			products = append(products, page...)
			if next == nil {
				break
			}
			query.Paginator = next
		}
		return printProducts(cmd.OutOrStdout(), products)
	},
}

func printProducts(w io.Writer, products []*model.Product) error {
	if len(products) == 0 {
		ui.Notice(w, "No products")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, ui.Header.Render("SECTION")+"\t"+ui.Header.Render("#")+"\t"+ui.Header.Render("ID")+"\t"+
		ui.Header.Render("TITLE")+"\t"+ui.Header.Render("PRICE")+"\t"+ui.Header.Render("STATUS"))
	for _, p := range products {
		status := string(p.Status)
		if p.Status == model.StatusPreorder {
			status = ui.Yellow.Render(status)
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\n", ui.Cyan.Render(p.Section), p.Order, p.ID, p.Title, p.Price, status)
	}
	return tw.Flush()
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one product with its resolved cover image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), appOptions{})
		if err != nil {
			return err
		}
		p, err := a.service.Get(args[0])
		if err != nil {
			return err
		}
		printProduct(cmd.OutOrStdout(), p, a.images.CoverPath(p.ID, p.Images))
		return nil
	},
}

func printProduct(w io.Writer, p *model.Product, cover string) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, field := range [][2]string{
		{"ID", p.ID},
		{"Section", fmt.Sprintf("%s #%d", p.Section, p.Order)},
		{"Title", p.Title},
		{"Price", p.Price},
		{"Status", string(p.Status)},
		{"Link", p.Link},
		{"Meta", p.Meta},
		{"Images", model.JoinImages(p.Images)},
		{"Cover", cover},
		{"Desc", p.Desc},
	} {
		fmt.Fprintf(tw, "%s\t%s\n", ui.Dim.Render(field[0]), field[1])
	}
	_ = tw.Flush()
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a product at the top of its section",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context(), appOptions{})
		if err != nil {
			return err
		}
		in := addInput
		in.ImageFiles = addImages
		_, summary, err := a.service.Add(cmd.Context(), in)
		if err != nil {
			return err
		}
		ui.Success(cmd.OutOrStdout(), "%s", summary.Message)
		return nil
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Edit product fields; a new section moves the product to its top",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var patch service.ProductPatch
		targets := map[string]**string{
			"title": &patch.Title, "price": &patch.Price, "desc": &patch.Desc, "meta": &patch.Meta,
			"section": &patch.Section, "status": &patch.Status, "link": &patch.Link,
		}
		for name, target := range targets {
			if cmd.Flags().Changed(name) {
				*target = updateFields[name]
			}
		}
		if cmd.Flags().Changed("images") {
			images := trimAll(updateImages)
			patch.Images = &images
		}

		a, err := newApp(cmd.Context(), appOptions{})
		if err != nil {
			return err
		}
		_, summary, err := a.service.Update(cmd.Context(), args[0], patch)
		if err != nil {
			return err
		}
		printSummary(cmd.OutOrStdout(), summary)
		return nil
	},
}

var removeCmd = &cobra.Command{
	Use:     "remove <id>",
	Aliases: []string{"rm", "delete"},
	Short:   "Delete a product and its image folder",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), appOptions{})
		if err != nil {
			return err
		}
		summary, err := a.service.Delete(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		ui.Success(cmd.OutOrStdout(), "%s", summary.Message)
		return nil
	},
}

var moveUpCmd = &cobra.Command{
	Use:   "move-up <id>",
	Short: "Move a product one position up in its section",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), appOptions{})
		if err != nil {
			return err
		}
		summary, err := a.service.MoveUp(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		ui.Success(cmd.OutOrStdout(), "%s", summary.Message)
		return nil
	},
}

var moveDownCmd = &cobra.Command{
	Use:   "move-down <id>",
	Short: "Move a product one position down in its section",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), appOptions{})
		if err != nil {
			return err
		}
		summary, err := a.service.MoveDown(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		ui.Success(cmd.OutOrStdout(), "%s", summary.Message)
		return nil
	},
}

var swapCmd = &cobra.Command{
	Use:   "swap <id> <id>",
	Short: "Exchange the positions of two products of one section",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), appOptions{})
		if err != nil {
			return err
		}
		summary, err := a.service.Swap(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		ui.Success(cmd.OutOrStdout(), "%s", summary.Message)
		return nil
	},
}

func printSummary(w io.Writer, summary service.Summary) {
	if summary.Changed {
		ui.Success(w, "%s", summary.Message)
		return
	}
	ui.Notice(w, "%s", summary.Message)
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
