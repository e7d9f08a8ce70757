package preferences

// Preference controls how a viewer sees messages from one specific peer.
// Keying by (viewer, peer) lets a user pick a different target language per
// conversation partner.
type Preference struct {
	AutoTranslate bool   `json:"autoTranslate"`
	TargetLang    string `json:"targetLang"`
}

// DefaultPreference is returned for pairs that were never set.
func DefaultPreference() Preference {
	return Preference{
		AutoTranslate: true,
		TargetLang:    "en",
	}
}
