package wordpress

// Image is a post's featured image.
type Image struct {
	SourceURL string
	AltText   string
	Width     int
	Height    int
}

// Author is the post author as exposed by WPGraphQL.
type Author struct {
	Name      string
	FirstName string
	LastName  string
	AvatarURL string
}

// Category is a post category. Count is the number of published posts;
// zero-count categories are hidden from navigation.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Count int    `json:"count"`
}

// Tag is a post tag. Count follows the same rule as Category.Count.
type Tag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Count int    `json:"count"`
}

// Post is a published blog post. Content and Excerpt are raw CMS HTML and
// must go through content.PrepareHTML (or be stripped) before rendering.
type Post struct {
	ID            string
	Title         string
	Slug          string
	Date          string
	Modified      string
	Content       string
	Excerpt       string
	FeaturedImage *Image
	Categories    []Category
	Tags          []Tag
	Author        Author
}

// PrimaryCategory returns the first category of p, if any.
func (p Post) PrimaryCategory() (Category, bool) {
	if len(p.Categories) == 0 {
		return Category{}, false
	}
	return p.Categories[0], true
}

// PageInfo describes a page of a cursor-paginated connection. Cursors are
// opaque and only valid for the query that produced them.
type PageInfo struct {
	EndCursor       string `json:"endCursor"`
	HasNextPage     bool   `json:"hasNextPage"`
	HasPreviousPage bool   `json:"hasPreviousPage"`
	StartCursor     string `json:"startCursor"`
}

// PostEdge pairs a post with its cursor.
type PostEdge struct {
	Cursor string
	Post   Post
}

// PostsResponse is one page of posts.
type PostsResponse struct {
	Edges    []PostEdge
	PageInfo PageInfo
}

// Posts returns the posts of r in order.
func (r PostsResponse) Posts() []Post {
	posts := make([]Post, 0, len(r.Edges))
	for _, e := range r.Edges {
		posts = append(posts, e.Post)
	}
	return posts
}

// Empty reports whether r carries no posts.
func (r PostsResponse) Empty() bool {
	return len(r.Edges) == 0
}

// VisibleCategories drops categories without published posts.
func VisibleCategories(cats []Category) []Category {
	var out []Category
	for _, c := range cats {
		if c.Count > 0 {
			out = append(out, c)
		}
	}
	return out
}

// VisibleTags drops tags without published posts.
func VisibleTags(tags []Tag) []Tag {
	var out []Tag
	for _, t := range tags {
		if t.Count > 0 {
			out = append(out, t)
		}
	}
	return out
}

// FindCategory looks up a category by slug.
func FindCategory(cats []Category, slug string) (Category, bool) {
	for _, c := range cats {
		if c.Slug == slug {
			return c, true
		}
	}
	return Category{}, false
}

// FindTag looks up a tag by slug.
func FindTag(tags []Tag, slug string) (Tag, bool) {
	for _, t := range tags {
		if t.Slug == slug {
			return t, true
		}
	}
	return Tag{}, false
}

// --- WPGraphQL wire shapes ---

type connection[T any] struct {
	Edges []struct {
		Cursor string `json:"cursor"`
		Node   T      `json:"node"`
	} `json:"edges"`
	PageInfo *PageInfo `json:"pageInfo"`
}

func (c *connection[T]) nodes() []T {
	if c == nil {
		return nil
	}
	out := make([]T, 0, len(c.Edges))
	for _, e := range c.Edges {
		out = append(out, e.Node)
	}
	return out
}

type wireImage struct {
	SourceURL    string `json:"sourceUrl"`
	AltText      string `json:"altText"`
	MediaDetails *struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	} `json:"mediaDetails"`
}

type wireAuthor struct {
	Name      string `json:"name"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Avatar    *struct {
		URL string `json:"url"`
	} `json:"avatar"`
}

type wirePost struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Slug          string `json:"slug"`
	Date          string `json:"date"`
	Modified      string `json:"modified"`
	Content       string `json:"content"`
	Excerpt       string `json:"excerpt"`
	FeaturedImage *struct {
		Node *wireImage `json:"node"`
	} `json:"featuredImage"`
	Categories *connection[Category] `json:"categories"`
	Tags       *connection[Tag]      `json:"tags"`
	Author     *struct {
		Node *wireAuthor `json:"node"`
	} `json:"author"`
}

func (w wirePost) toPost() Post {
	p := Post{
		ID:         w.ID,
		Title:      w.Title,
		Slug:       w.Slug,
		Date:       w.Date,
		Modified:   w.Modified,
		Content:    w.Content,
		Excerpt:    w.Excerpt,
		Categories: w.Categories.nodes(),
		Tags:       w.Tags.nodes(),
	}
	if w.FeaturedImage != nil && w.FeaturedImage.Node != nil && w.FeaturedImage.Node.SourceURL != "" {
		img := &Image{
			SourceURL: w.FeaturedImage.Node.SourceURL,
			AltText:   w.FeaturedImage.Node.AltText,
		}
		if md := w.FeaturedImage.Node.MediaDetails; md != nil {
			img.Width, img.Height = md.Width, md.Height
		}
		p.FeaturedImage = img
	}
	if w.Author != nil && w.Author.Node != nil {
		a := w.Author.Node
		p.Author = Author{Name: a.Name, FirstName: a.FirstName, LastName: a.LastName}
		if a.Avatar != nil {
			p.Author.AvatarURL = a.Avatar.URL
		}
	}
	return p
}

func (c *connection[T]) pageInfo() PageInfo {
	if c == nil || c.PageInfo == nil {
		return PageInfo{}
	}
	return *c.PageInfo
}

func toPostsResponse(c *connection[wirePost]) PostsResponse {
	if c == nil {
		return PostsResponse{}
	}
	resp := PostsResponse{
		Edges:    make([]PostEdge, 0, len(c.Edges)),
		PageInfo: c.pageInfo(),
	}
	for _, e := range c.Edges {
		resp.Edges = append(resp.Edges, PostEdge{Cursor: e.Cursor, Post: e.Node.toPost()})
	}
	return resp
}
