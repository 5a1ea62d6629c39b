// Package responses holds every reply PictureBot can send.
package responses
