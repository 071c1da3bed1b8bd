package services

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// CacheKey fingerprints a document together with the pipeline settings that
// shape its plan. Two runs with the same content and the same settings
// produce the same key, regardless of file name or path, so a renamed or
// copied file still hits the cache while any edit misses it.
//
// Every setting that changes the produced plan participates: chunk sizing,
// the section plausibility band (it decides which segmentation runs), topic
// targets, passage ranking, and the sampling parameters of the extraction
// calls. Operational settings (concurrency, retries, timeouts) do not.
func CacheKey(content string, cfg Config) string {
	h := sha256.New()
	h.Write([]byte(content))
	fmt.Fprintf(h, "|u=%d|o=%d|sep=%q|smin=%d|smax=%d|ps=%d|pr=%.3f|k=%d|pf=%d|tmin=%d|tmax=%d|mt=%d|temp=%.3f",
		cfg.Chunking.UnitSize,
		cfg.Chunking.OverlapSize,
		cfg.Chunking.Separator,
		cfg.Sections.MinSections,
		cfg.Sections.MaxSections,
		cfg.Passages.Size,
		cfg.Passages.OverlapRatio,
		cfg.Passages.TopK,
		cfg.Passages.PrefilterLimit,
		cfg.Topics.TargetMin,
		cfg.Topics.TargetMax,
		cfg.Extraction.MaxTokens,
		cfg.Extraction.Temperature,
	)
	return hex.EncodeToString(h.Sum(nil))
}
