package handler

import "coldchain/internal/telematics/models"

type ListResponse[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

type ProvisionResponse struct {
	ReeferID string        `json:"reefer_id"`
	Device   models.Device `json:"device"`
}
