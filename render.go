package main

import (
	"fmt"
	"io"
)

func renderFeed(w io.Writer, state FeedState) {
	switch state.Status {
	case Loading:
		fmt.Fprintln(w, "Loading images...")
	case Failed:
		fmt.Fprintf(w, "Error: %s\n", state.Message)
	case Ready:
		images := state.Images()
		if len(images) == 0 {
			fmt.Fprintln(w, "No images to vote on.")
			return
		}
		for _, img := range images {
			fmt.Fprintf(w, "Image %s\t%s\tlikes: %d\tdislikes: %d\n", img.ID, img.URL, img.Likes, img.Dislikes)
		}
	}
}
