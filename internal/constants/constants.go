package constants

// DefaultBaseURL is the origin queried for hash-based subtitle lookups.
const DefaultBaseURL = "https://www.opensubtitles.org"

// DefaultUserAgent identifies this tool to the subtitle host.
const DefaultUserAgent = "subgrab/1.0"

// DefaultLanguage is the subtitle language searched when none is given.
const DefaultLanguage = "eng"
