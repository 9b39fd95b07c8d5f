// Package tourapi fetches points of interest from the public tourism
// catalog API and normalizes them into models.Place records.
package tourapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/getsentry/sentry-go"

	"github.com/1pybb7-prog/mytourproject1/internal/config"
	"github.com/1pybb7-prog/mytourproject1/internal/geo"
	"github.com/1pybb7-prog/mytourproject1/internal/metrics"
	"github.com/1pybb7-prog/mytourproject1/internal/models"
	"github.com/1pybb7-prog/mytourproject1/internal/report"
	"github.com/1pybb7-prog/mytourproject1/internal/utils"
)

const (
	areaBasedListPath = "/areaBasedList1"
	searchKeywordPath = "/searchKeyword1"

	// DefaultPageSize is the numOfRows used when the caller does not care.
	DefaultPageSize = 100

	maxFetchRetries = 3

	resultCodeOK = "0000"
)

// listResponse mirrors the wire shape of the catalog's list endpoints.
type listResponse struct {
	Response struct {
		Header struct {
			ResultCode string `json:"resultCode"`
			ResultMsg  string `json:"resultMsg"`
		} `json:"header"`
		Body struct {
			Items struct {
				Item []placeItem `json:"item"`
			} `json:"items"`
			NumOfRows  int `json:"numOfRows"`
			PageNo     int `json:"pageNo"`
			TotalCount int `json:"totalCount"`
		} `json:"body"`
	} `json:"response"`
}

type placeItem struct {
	ContentID     string `json:"contentid"`
	ContentTypeID string `json:"contenttypeid"`
	Title         string `json:"title"`
	Addr1         string `json:"addr1"`
	Tel           string `json:"tel"`
	FirstImage    string `json:"firstimage"`
	MapX          string `json:"mapx"`
	MapY          string `json:"mapy"`
}

// Client talks to one or more configured tourism catalog sources.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Client. A nil http.Client falls back to
// http.DefaultClient.
func NewClient(httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{httpClient: httpClient, logger: logger}
}

// AreaBasedList fetches one page of places for the source's configured
// area and content type. It returns the page of places plus the total
// record count reported by the API.
func (c *Client) AreaBasedList(ctx context.Context, source models.TourSource, pageNo, numOfRows int) ([]models.Place, int, error) {
	query := c.baseQuery(source, pageNo, numOfRows)
	if source.AreaCode != "" {
		query.Set("areaCode", source.AreaCode)
	}
	if source.ContentTypeID != "" {
		query.Set("contentTypeId", source.ContentTypeID)
	}
	return c.fetchList(ctx, source, areaBasedListPath, query)
}

// SearchKeyword fetches one page of places matching the keyword within the
// source's configured area and content type.
func (c *Client) SearchKeyword(ctx context.Context, source models.TourSource, keyword string, pageNo, numOfRows int) ([]models.Place, int, error) {
	if keyword == "" {
		return nil, 0, fmt.Errorf("keyword must not be empty")
	}
	query := c.baseQuery(source, pageNo, numOfRows)
	query.Set("keyword", keyword)
	if source.AreaCode != "" {
		query.Set("areaCode", source.AreaCode)
	}
	if source.ContentTypeID != "" {
		query.Set("contentTypeId", source.ContentTypeID)
	}
	return c.fetchList(ctx, source, searchKeywordPath, query)
}

// FetchAllPlaces pages through the area list until every record has been
// retrieved.
func (c *Client) FetchAllPlaces(ctx context.Context, source models.TourSource) ([]models.Place, error) {
	var all []models.Place
	for pageNo := 1; ; pageNo++ {
		page, total, err := c.AreaBasedList(ctx, source, pageNo, DefaultPageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(all) >= total || len(page) == 0 {
			return all, nil
		}
	}
}

func (c *Client) baseQuery(source models.TourSource, pageNo, numOfRows int) url.Values {
	if numOfRows <= 0 {
		numOfRows = DefaultPageSize
	}
	if pageNo <= 0 {
		pageNo = 1
	}
	appName := source.AppName
	if appName == "" {
		appName = "tourmapd"
	}
	query := url.Values{}
	query.Set("serviceKey", source.ServiceKey)
	query.Set("MobileOS", "ETC")
	query.Set("MobileApp", appName)
	query.Set("_type", "json")
	query.Set("numOfRows", strconv.Itoa(numOfRows))
	query.Set("pageNo", strconv.Itoa(pageNo))
	return query
}

func (c *Client) fetchList(ctx context.Context, source models.TourSource, path string, query url.Values) ([]models.Place, int, error) {
	endpoint := source.BaseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %v", err)
	}

	resp, err := config.DoWithBackoff(ctx, c.httpClient, req, maxFetchRetries)
	if err != nil {
		metrics.TourApiStatus.WithLabelValues(strconv.Itoa(source.ID), source.BaseURL).Set(0)
		report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
			Tags:  utils.MakeMap("source_id", strconv.Itoa(source.ID)),
			Level: sentry.LevelError,
		})
		return nil, 0, fmt.Errorf("failed to fetch places from %s: %v", source.BaseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.TourApiStatus.WithLabelValues(strconv.Itoa(source.ID), source.BaseURL).Set(0)
		statusErr := fmt.Errorf("tour API returned status %d for %s", resp.StatusCode, path)
		report.ReportErrorWithSentryOptions(statusErr, report.SentryReportOptions{
			Tags: utils.MakeMap("source_id", strconv.Itoa(source.ID)),
			ExtraContext: map[string]interface{}{
				"path":        path,
				"status_code": resp.StatusCode,
			},
			Level: sentry.LevelError,
		})
		return nil, 0, statusErr
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response body: %v", err)
	}

	var decoded listResponse
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, 0, fmt.Errorf("failed to unmarshal tour API response: %v", err)
	}

	if code := decoded.Response.Header.ResultCode; code != "" && code != resultCodeOK {
		return nil, 0, fmt.Errorf("tour API error %s: %s", code, decoded.Response.Header.ResultMsg)
	}

	metrics.TourApiStatus.WithLabelValues(strconv.Itoa(source.ID), source.BaseURL).Set(1)

	places := c.convertItems(source, decoded.Response.Body.Items.Item)
	return places, decoded.Response.Body.TotalCount, nil
}

// convertItems normalizes raw catalog items into Place records. A record
// with an unparseable coordinate pair is skipped so one malformed row does
// not prevent rendering the rest.
func (c *Client) convertItems(source models.TourSource, items []placeItem) []models.Place {
	places := make([]models.Place, 0, len(items))
	for _, item := range items {
		pos, err := geo.Normalize(item.MapX, item.MapY)
		if err != nil {
			if errors.Is(err, geo.ErrInvalidCoordinate) {
				metrics.PlacesSkipped.WithLabelValues(strconv.Itoa(source.ID)).Inc()
				if c.logger != nil {
					c.logger.Warn("Skipping place with invalid coordinates",
						"source_id", source.ID, "content_id", item.ContentID, "error", err)
				}
				report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
					Tags: utils.MakeMap("content_id", item.ContentID),
					ExtraContext: map[string]interface{}{
						"mapx": item.MapX,
						"mapy": item.MapY,
					},
					Level: sentry.LevelWarning,
				})
				continue
			}
			continue
		}
		if !geo.IsValidLatLng(pos.Lat, pos.Lng) {
			metrics.PlacesSkipped.WithLabelValues(strconv.Itoa(source.ID)).Inc()
			if c.logger != nil {
				c.logger.Warn("Skipping place with out-of-range coordinates",
					"source_id", source.ID, "content_id", item.ContentID, "lat", pos.Lat, "lng", pos.Lng)
			}
			continue
		}
		places = append(places, models.Place{
			ID:            item.ContentID,
			Title:         item.Title,
			Address:       item.Addr1,
			Tel:           item.Tel,
			ImageURL:      item.FirstImage,
			ContentTypeID: item.ContentTypeID,
			Position:      pos,
		})
	}
	return places
}
