package seed

import "github.com/reactpress/reactpress/internal/domain"

var sampleCategories = []domain.CreateCategoryInput{
	{Name: "React", Slug: "react", Description: stringPtr("Posts about React.js")},
	{Name: "Next.js", Slug: "nextjs", Description: stringPtr("Posts about Next.js framework")},
	{Name: "Prisma", Slug: "prisma", Description: stringPtr("Posts about Prisma ORM")},
}

var sampleTags = []domain.CreateTagInput{
	{Name: "Frontend", Slug: "frontend"},
	{Name: "Database", Slug: "database"},
	{Name: "Performance", Slug: "performance"},
	{Name: "TypeScript", Slug: "typescript"},
}

const welcomePost = `# Welcome to ReactPress

This is a sample post to help you get started with ReactPress, a modern CMS.

## Features

- Typed repositories over PostgreSQL or SQLite
- Categories and tags for organising posts
- Draft and published workflows for posts and pages

## Getting Started

1. Create your first post
2. Set up categories and tags
3. Publish your content

Enjoy building with ReactPress!
`

const aboutPage = `# About ReactPress

ReactPress is a content management system for the modern web.

## Our Mission

To provide a flexible, performant and developer-friendly CMS.

Contact us at info@reactpress.dev for more information.
`
