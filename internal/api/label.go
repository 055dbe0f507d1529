// File: internal/api/label.go
package api

import "recipe-app/internal/model"

// LabelRequest 建立或更新 tag / ingredient
// swagger:model api.LabelRequest
type LabelRequest struct {
	Name *string `json:"name" form:"name" example:"Vegan"`
}

// swagger:model api.LabelResponse
type LabelResponse struct {
	ID   int    `json:"id" example:"1"`
	Name string `json:"name" example:"Vegan"`
}

func NewLabelResponse(l model.Label) LabelResponse {
	return LabelResponse{ID: l.ID, Name: l.Name}
}

func NewLabelList(ls []model.Label) []LabelResponse {
	out := make([]LabelResponse, 0, len(ls))
	for _, l := range ls {
		out = append(out, NewLabelResponse(l))
	}
	return out
}
