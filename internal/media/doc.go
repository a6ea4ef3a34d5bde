// Package media classifies library files into videos and subtitles and
// derives the base names used to pair them.
package media
