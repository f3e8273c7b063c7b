package icon

// Icon identifies a UI symbol in the global registry.
type Icon int

const (
	Fail Icon = iota
	Success
	Progress
	Download
	Stream
)

// icons is the global registry mapping identifiers to their variant renderings.
var icons = map[Icon]*iconDef{
	Fail:     {emoji: "💀", nerd: "", plain: "[!]"},
	Success:  {emoji: "🎉", nerd: "", plain: "[ok]"},
	Progress: {emoji: "⏳", nerd: "", plain: "..."},
	Download: {emoji: "📥", nerd: "", plain: "[dl]"},
	Stream:   {emoji: "📡", nerd: "", plain: "[>]"},
}
