package watermark

import "github.com/dazzlo/video-downloader/internal/model"

// Fixed filter-graph templates. Region coordinates are tuned per platform
// against the usual overlay placement; order inside a graph is significant
// (crop first, then delogo against the cropped frame, then sharpen).
const (
	// TikTok stacks a logo bottom-right, a username bottom-left and a small
	// icon top-right.
	tiktokFilter = "crop=iw-40:ih-120:20:20," +
		"delogo=x=W-200:y=H-120:w=180:h=100:show=0," +
		"delogo=x=10:y=H-60:w=150:h=50:show=0," +
		"delogo=x=W-60:y=10:w=50:h=30:show=0," +
		"unsharp=5:5:0.8:5:5:0.0"

	// Instagram puts the username block top-left.
	instagramFilter = "crop=iw-30:ih-80:15:40," +
		"delogo=x=10:y=10:w=220:h=60:show=0," +
		"delogo=x=W-100:y=H-40:w=90:h=30:show=0," +
		"unsharp=5:5:1.0:5:5:0.0"

	snapchatFilter = "crop=iw-20:ih-100:10:10," +
		"delogo=x=10:y=H-100:w=200:h=80:show=0," +
		"delogo=x=W-150:y=H-50:w=140:h=40:show=0"

	facebookFilter = "crop=iw-20:ih-40:10:20," +
		"delogo=x=10:y=10:w=180:h=40:show=0," +
		"delogo=x=W-120:y=H-50:w=110:h=40:show=0"

	// Generic crops the borders, then upscales 10% to recover the field of
	// view before a final trim discards the interpolation artifacts.
	genericFilter = "crop=iw-60:ih-60:30:30," +
		"unsharp=5:5:1.0:5:5:0.0," +
		"scale=iw*1.1:ih*1.1," +
		"crop=iw-40:ih-40:20:20"
)

var filterGraphs = map[model.Platform]string{
	model.PlatformTikTok:    tiktokFilter,
	model.PlatformInstagram: instagramFilter,
	model.PlatformSnapchat:  snapchatFilter,
	model.PlatformFacebook:  facebookFilter,
}

// Plan returns the filter graph for a platform. Platforms without a tuned
// template get the generic border-crop graph.
func Plan(platform model.Platform) string {
	if graph, ok := filterGraphs[platform]; ok {
		return graph
	}
	return genericFilter
}
