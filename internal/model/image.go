package model

// Image is a photo owned by the item with the same ID.
type Image struct {
	ID   string `json:"id"`
	Data string `json:"data"`
}
