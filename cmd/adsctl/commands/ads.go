package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ignatzorin/classifieds-backend/internal/app"
	"github.com/ignatzorin/classifieds-backend/internal/dto"
	"github.com/ignatzorin/classifieds-backend/internal/service"
)

var (
	// Флаги counts
	ownerID string

	// Флаги browse
	adType int
	page   int
)

var countsCmd = &cobra.Command{
	Use:   "counts",
	Short: "Количество объявлений владельца по статусам",
	Long: `Считает объявления владельца в статусах active, pending, inactive и expired.

Пример:
  adsctl counts --owner 1b4e28ba-2fa1-11d2-883f-0016d3cca427`,
	RunE: func(cmd *cobra.Command, args []string) error {
		owner, err := uuid.Parse(ownerID)
		if err != nil {
			return fmt.Errorf("--owner должен быть UUID: %w", err)
		}

		return withAdService(cmd.Context(), func(ads *service.AdService) error {
			res, err := ads.MyAds(cmd.Context(), owner, "", 1)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				return writeJSON(out, res.TotalCounts)
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "STATUS\tCOUNT")
			fmt.Fprintf(w, "active\t%d\n", res.TotalCounts.Active)
			fmt.Fprintf(w, "pending\t%d\n", res.TotalCounts.Pending)
			fmt.Fprintf(w, "inactive\t%d\n", res.TotalCounts.Inactive)
			fmt.Fprintf(w, "expired\t%d\n", res.TotalCounts.Expired)
			return w.Flush()
		})
	},
}

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Страница публичной выдачи",
	Long: `Показывает страницу выдачи так же, как GET /api/ads.

Пример:
  adsctl browse --type 2 --page 3`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var typeFilter *int
		if cmd.Flags().Changed("type") {
			typeFilter = &adType
		}

		return withAdService(cmd.Context(), func(ads *service.AdService) error {
			res, err := ads.Browse(cmd.Context(), typeFilter, page)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			return printBrowse(cmd.OutOrStdout(), res)
		})
	},
}

func init() {
	countsCmd.Flags().StringVar(&ownerID, "owner", "", "UUID владельца")
	_ = countsCmd.MarkFlagRequired("owner")

	browseCmd.Flags().IntVar(&adType, "type", 0, "Категория объявления")
	browseCmd.Flags().IntVar(&page, "page", 1, "Номер страницы")

	rootCmd.AddCommand(countsCmd, browseCmd)
}

// withAdService собирает AdService поверх выбранного хранилища и закрывает соединения.
func withAdService(ctx context.Context, fn func(*service.AdService) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	conn, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	store, mongoClient, err := app.AdStore(ctx, cfg, conn)
	if err != nil {
		return err
	}
	if mongoClient != nil {
		defer mongoClient.Disconnect(context.Background())
	}

	// Чтение не удаляет файлы, хранилище медиа не нужно.
	return fn(service.NewAdService(store, nil, cfg.DefaultAdDurationDays))
}

func printBrowse(out io.Writer, res *dto.BrowseResponse) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tTITLE\tPRICE\tSTART\tPREMIUM")
	for _, ad := range res.Ads {
		start := "-"
		if ad.StartDate != nil {
			start = ad.StartDate.Format(time.DateOnly)
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%.2f\t%s\t%t\n", ad.ID, ad.Type, ad.Title, ad.Price, start, ad.Premium)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "страница %d из %d, всего %d\n", res.CurrentPage, res.TotalPages, res.Total)
	return err
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
