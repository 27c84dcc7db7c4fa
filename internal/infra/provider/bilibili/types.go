package bilibili

// viewResponse is the envelope of /x/web-interface/view. Code 0 means
// success; anything else carries a bilibili-side error message.
type viewResponse struct {
	Code    int      `json:"code"`
	Message string   `json:"message"`
	Data    viewData `json:"data"`
}

type viewData struct {
	Bvid     string    `json:"bvid"`
	Title    string    `json:"title"`
	Desc     string    `json:"desc"`
	Pic      string    `json:"pic"`
	Duration int64     `json:"duration"`
	Pubdate  int64     `json:"pubdate"`
	Owner    owner     `json:"owner"`
	Stat     stat      `json:"stat"`
	Tag      []tagItem `json:"tag"`
}

type owner struct {
	Mid  int64  `json:"mid"`
	Name string `json:"name"`
	Face string `json:"face"`
}

type stat struct {
	View  int64 `json:"view"`
	Like  int64 `json:"like"`
	Reply int64 `json:"reply"`
	Share int64 `json:"share"`
}

type tagItem struct {
	TagName string `json:"tag_name"`
}

// relationResponse is the envelope of /x/relation/stat.
type relationResponse struct {
	Code int `json:"code"`
	Data struct {
		Follower int64 `json:"follower"`
	} `json:"data"`
}
