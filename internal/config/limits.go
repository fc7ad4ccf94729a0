package config

const (
	// MaxTitleLength is the maximum length (in runes) for document titles.
	// Titles show in the sidebar and trash lists, so they should stay short.
	MaxTitleLength = 255

	// MaxIconLength bounds the icon field. Icons are emoji, which can be
	// several code points once skin tones and joiners are included.
	MaxIconLength = 64

	// MaxCoverURLLength is the maximum length of a cover image URL.
	MaxCoverURLLength = 2048

	// MaxContentBytes caps the serialized editor payload of one document.
	MaxContentBytes = 5 << 20
)
