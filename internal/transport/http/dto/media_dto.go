package dto

type AvatarResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type AvatarURLResponse struct {
	URL string `json:"url"`
}
