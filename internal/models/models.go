package models

import "github.com/1pybb7-prog/mytourproject1/internal/geo"

// TourSource describes one configured instance of the public tourism API:
// where to reach it, the issued service key, and which slice of the catalog
// (area, content type) this deployment cares about.
type TourSource struct {
	Name          string `json:"name" validate:"required"`
	ID            int    `json:"id" validate:"required,min=1"`
	BaseURL       string `json:"base_url" validate:"required,url"`
	ServiceKey    string `json:"service_key" validate:"required"`
	AreaCode      string `json:"area_code"`
	ContentTypeID string `json:"content_type_id"`
	AppName       string `json:"app_name"`
}

// NewTourSource creates a new TourSource instance.
func NewTourSource(name string, id int, baseURL, serviceKey, areaCode, contentTypeID, appName string) *TourSource {
	return &TourSource{
		Name:          name,
		ID:            id,
		BaseURL:       baseURL,
		ServiceKey:    serviceKey,
		AreaCode:      areaCode,
		ContentTypeID: contentTypeID,
		AppName:       appName,
	}
}

// Place is one point of interest from the tourism catalog with its
// coordinates already normalized to decimal degrees. It is immutable once
// constructed; the raw fixed-point coordinate strings stay in the API layer.
type Place struct {
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	Address       string       `json:"address,omitempty"`
	Tel           string       `json:"tel,omitempty"`
	ImageURL      string       `json:"image_url,omitempty"`
	ContentTypeID string       `json:"content_type_id"`
	Position      geo.Position `json:"position"`
}
