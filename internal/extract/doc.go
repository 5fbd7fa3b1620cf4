// Package extract pulls artist names out of similar-artists pages.
//
// Pattern finds raw tokens in a page body. Decoder turns a raw token into a
// display name by URL-decoding it leniently and undoing the two escapes
// the site applies on top of that. ParseRedirect extracts the target
// artist from a redirect Location.
//
// Nothing here touches the network, so the package can be tested with
// plain strings.
package extract
