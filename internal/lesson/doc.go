// ABOUTME: Lesson content package
// ABOUTME: Articles, sentence segments and vocabulary with their optional audio payloads
// Package lesson loads reading lessons.
//
// An Article is split into Segments (sentences) and carries KeyVocabulary.
// Either may hold a base64 audio payload; an item without one is unplayable.
//
// Example:
//
//	articles, err := lesson.Load("lesson.json")
//	words := articles[0].FindVocabulary(articles[0].Segments[0].Text)
package lesson
