// Package ytdlp wraps the yt-dlp CLI used to fetch audio for a job.
//
// The client builds the download command, streams yt-dlp's "[download] NN%"
// lines through the fetch-progress parser, and confirms the requested output
// file exists once the process exits successfully.
package ytdlp
