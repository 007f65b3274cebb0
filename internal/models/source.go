package models

// Source names the tier that produced a result.
type Source string

const (
	SourceGetgems   Source = "getgems"
	SourceTonAPI    Source = "tonapi"
	SourceToncenter Source = "toncenter"
	SourceCache     Source = "cache"
	SourceSynthetic Source = "synthetic"
	// SourceNone means every tier failed.
	SourceNone Source = "none"
)
