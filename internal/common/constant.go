package common

// Default logical names of the durable store. They match the names used by
// the desktop application that first wrote the library, so an existing
// database is picked up without extra configuration.
const (
	DefaultMongoURI   = "mongodb://localhost:27017"
	DefaultDatabase   = "NovelEditorDb"
	DefaultCollection = "Novels"
)

// CoversDirName is the name of the asset directory under the data directory.
const CoversDirName = "Covers"
