package handlers

import (
	"net/http"

	"luxeprompt/internal/catalog"
	"luxeprompt/internal/domain/jsoncfg"
	"luxeprompt/internal/formatter"
)

type catalogResponse struct {
	Aesthetics   []catalog.Aesthetic `json:"aesthetics"`
	ShotTypes    []catalog.ShotType  `json:"shot_types"`
	Wardrobes    []catalog.Wardrobe  `json:"wardrobes"`
	Models       []jsoncfg.ModelID   `json:"models"`
	DefaultModel jsoncfg.ModelID     `json:"default_model"`
}

func (a *App) Catalog(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, catalogResponse{
		Aesthetics:   catalog.Aesthetics(),
		ShotTypes:    catalog.ShotTypes(),
		Wardrobes:    catalog.Wardrobes(),
		Models:       formatter.Models(),
		DefaultModel: formatter.DefaultModel,
	})
}
