package openrouter

// ParseFrame exports parseFrame for testing.
var ParseFrame = parseFrame
