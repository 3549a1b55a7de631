package styles

// Tip: To find icons use https://github.com/loichyan/nerdfix

var (
	IconCamera = "\U000F0100" // 󰄀
	IconImage  = "\U000F021F" // 󰈟
	IconKeep   = ""     //
	IconDelete = ""     //
	IconTrash  = ""     //
	IconUndo   = ""     //
	IconClock  = ""     //
	IconRuler  = "\U000F045A" // 󰑚
	IconDisk   = ""     //
)

// Directory icons
var (
	IconFolderOpen   = "" //
	IconFolderClosed = "" //
)

// Notification icons
var (
	IconNotifyInfo    = "" //
	IconNotifySuccess = "" //
	IconNotifyWarning = "" //
	IconNotifyError   = "" //
)
