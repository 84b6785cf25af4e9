package styles

// Tip: To find icons use https://github.com/loichyan/nerdfix

var (
	IconChecked   = "\U000F0133" // md-checkbox_marked
	IconUnchecked = "\U000F0130" // md-checkbox_blank_outline
	IconCursor    = "\u276F"     // heavy right-pointing angle
	IconEdit      = "\uF044"     // fa-pencil_square_o
	IconCheckList = "\uF0AE"     // fa-tasks
)

// Toast level icons
var (
	IconInfo    = "\uF05A" // fa-info_circle
	IconWarning = "\uF071" // fa-warning
	IconError   = "\uF057" // fa-times_circle
)
