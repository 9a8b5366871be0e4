package zoom

import "strings"

var virtualMarkers = []string{
	"zoom", "online meeting", "video call", "virtual meeting", "webinar",
	"线上会议", "视频会议", "网络会议", "在线会议",
}

// ShouldProvision reports whether text or location asks for a video meeting.
func ShouldProvision(text, location string) bool {
	hay := strings.ToLower(text + " " + location)
	for _, m := range virtualMarkers {
		if strings.Contains(hay, m) {
			return true
		}
	}
	return false
}
