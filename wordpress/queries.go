package wordpress

// Fragments shared by the post queries. Listing queries never request
// content; only PostBySlug does.
const (
	postCardFragment = `
fragment PostCardFields on Post {
  id
  date
  modified
  title
  slug
  excerpt
  featuredImage {
    node {
      sourceUrl
      altText
      mediaDetails {
        height
        width
      }
    }
  }
  categories {
    edges {
      node {
        id
        name
        slug
      }
    }
  }
  tags {
    edges {
      node {
        id
        name
        slug
      }
    }
  }
  author {
    node {
      name
      firstName
      lastName
      avatar {
        url
      }
    }
  }
}
`

	pageInfoFields = `
    pageInfo {
      endCursor
      hasNextPage
      hasPreviousPage
      startCursor
    }`
)

const queryAllPosts = `
query AllPosts($first: Int!, $after: String) {
  posts(first: $first, after: $after, where: { status: PUBLISH }) {` + pageInfoFields + `
    edges {
      cursor
      node {
        ...PostCardFields
      }
    }
  }
}
` + postCardFragment

const queryPostBySlug = `
query PostBySlug($id: ID!) {
  post(id: $id, idType: SLUG) {
    ...PostCardFields
    content
  }
}
` + postCardFragment

const queryAllPostSlugs = `
query AllPostSlugs($first: Int!) {
  posts(first: $first, where: { status: PUBLISH }) {
    edges {
      node {
        slug
      }
    }
  }
}
`

const queryPostsByCategory = `
query PostsByCategory($categorySlug: String!, $first: Int!, $after: String) {
  posts(
    first: $first
    after: $after
    where: { categoryName: $categorySlug, status: PUBLISH }
  ) {` + pageInfoFields + `
    edges {
      cursor
      node {
        ...PostCardFields
      }
    }
  }
}
` + postCardFragment

const queryPostsByTag = `
query PostsByTag($tagSlug: String!, $first: Int!, $after: String) {
  posts(
    first: $first
    after: $after
    where: { tag: $tagSlug, status: PUBLISH }
  ) {` + pageInfoFields + `
    edges {
      cursor
      node {
        ...PostCardFields
      }
    }
  }
}
` + postCardFragment

const queryAllCategories = `
query AllCategories($first: Int!) {
  categories(first: $first) {
    edges {
      node {
        id
        name
        slug
        count
      }
    }
  }
}
`

const queryAllTags = `
query AllTags($first: Int!) {
  tags(first: $first) {
    edges {
      node {
        id
        name
        slug
        count
      }
    }
  }
}
`

const querySearchPosts = `
query SearchPosts($query: String!, $first: Int!) {
  posts(first: $first, where: { search: $query, status: PUBLISH }) {
    edges {
      cursor
      node {
        ...PostCardFields
      }
    }
  }
}
` + postCardFragment

const queryRelatedPosts = `
query RelatedPosts($categorySlug: String!, $postId: ID!, $count: Int!) {
  posts(
    first: $count
    where: { categoryName: $categorySlug, notIn: [$postId], status: PUBLISH }
  ) {
    edges {
      cursor
      node {
        ...PostCardFields
      }
    }
  }
}
` + postCardFragment
