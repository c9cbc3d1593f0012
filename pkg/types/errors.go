package types

import "errors"

var (
	ErrIncidentNotFound = errors.New("incident not found")
	ErrPaymentNotFound  = errors.New("payment not found")
	ErrProfileNotFound  = errors.New("profile not found")

	ErrImageTooLarge    = errors.New("image exceeds the 10 MiB limit")
	ErrVideoTooLarge    = errors.New("video exceeds the 50 MiB limit")
	ErrUnsupportedMedia = errors.New("unsupported media type")
)
