package analysis

import (
	"path/filepath"
	"strings"
)

// languageByExtension is the fixed extension-to-language mapping used when
// building review prompts. Unknown extensions fall back to "text".
var languageByExtension = map[string]string{
	".py":    "python",
	".js":    "javascript",
	".jsx":   "javascript",
	".ts":    "typescript",
	".tsx":   "typescript",
	".java":  "java",
	".go":    "go",
	".rs":    "rust",
	".cpp":   "cpp",
	".cc":    "cpp",
	".hpp":   "cpp",
	".c":     "c",
	".h":     "c",
	".cs":    "csharp",
	".php":   "php",
	".rb":    "ruby",
	".swift": "swift",
	".kt":    "kotlin",
	".scala": "scala",
	".clj":   "clojure",
	".sh":    "bash",
	".sql":   "sql",
	".html":  "html",
	".css":   "css",
	".scss":  "scss",
}

// binaryExtensions lists file types never sent to a backend, in addition
// to files the repository service already flags as binary.
var binaryExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".ico": true,
	".pdf": true, ".zip": true, ".tar": true, ".gz": true, ".bz2": true,
	".exe": true, ".dll": true, ".so": true, ".dylib": true, ".bin": true,
	".woff": true, ".woff2": true, ".ttf": true, ".eot": true,
	".mp3": true, ".mp4": true, ".avi": true, ".mov": true,
	".jar": true, ".class": true, ".pyc": true, ".o": true, ".a": true,
	".wasm": true,
}

// DetectLanguage maps a filename to its programming language.
func DetectLanguage(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if lang, ok := languageByExtension[ext]; ok {
		return lang
	}
	return "text"
}

// IsBinaryPath reports whether the filename has a known binary extension.
func IsBinaryPath(filename string) bool {
	return binaryExtensions[strings.ToLower(filepath.Ext(filename))]
}
