package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

type Images []Image

type Image struct {
	ID       ImageID `json:"id"`
	URL      string  `json:"url"`
	Likes    int     `json:"likes"`
	Dislikes int     `json:"dislikes"`
}

// ImageID holds the raw JSON token the server used for an image id, so a
// numeric id is sent back as a number and a string id as a string. A value
// that is not a JSON number or string token is sent as a string.
type ImageID string

func isScalarToken(s string) bool {
	if !json.Valid([]byte(s)) {
		return false
	}
	if s[0] == '"' {
		return true
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// ParseImageID converts command line text into an ImageID.
func ParseImageID(s string) (ImageID, error) {
	if s == "" {
		return "", fmt.Errorf("empty image id")
	}
	if s[0] != '"' && isScalarToken(s) {
		return ImageID(s), nil
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return ImageID(raw), nil
}

func (id ImageID) String() string {
	var s string
	if err := json.Unmarshal([]byte(id), &s); err == nil {
		return s
	}
	return string(id)
}

func (id ImageID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	if !isScalarToken(string(id)) {
		return json.Marshal(string(id))
	}
	return []byte(id), nil
}

func (id *ImageID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || (data[0] != '"' && (data[0] < '0' || data[0] > '9') && data[0] != '-') {
		return fmt.Errorf("image id must be a number or a string, got %s", data)
	}
	*id = ImageID(data)
	return nil
}

type VoteType string

const (
	Like    VoteType = "like"
	Dislike VoteType = "dislike"
)

func ParseVoteType(s string) (VoteType, error) {
	switch VoteType(s) {
	case Like, Dislike:
		return VoteType(s), nil
	}
	return "", fmt.Errorf("unknown vote type %q (want %q or %q)", s, Like, Dislike)
}

type voteRequest struct {
	ImageID  ImageID  `json:"image_id"`
	VoteType VoteType `json:"vote_type"`
}

type healthResponse struct {
	Status string `json:"status"`
}

type FeedStatus int

const (
	Loading FeedStatus = iota
	Ready
	Failed
)

func (s FeedStatus) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("FeedStatus(%d)", int(s))
}

// FeedState is a snapshot of the feed. Images is only set when Status is
// Ready and Message only when Status is Failed.
type FeedState struct {
	Status  FeedStatus
	images  Images
	Message string
}

func readyState(images Images) FeedState {
	if images == nil {
		images = Images{}
	}
	return FeedState{Status: Ready, images: images}
}

func failedState(message string) FeedState {
	return FeedState{Status: Failed, Message: message}
}

// Images returns a copy of the feed, or nil unless the state is Ready.
func (s FeedState) Images() Images {
	if s.Status != Ready {
		return nil
	}
	out := make(Images, len(s.images))
	copy(out, s.images)
	return out
}
