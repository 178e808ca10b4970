package services

import (
	"fmt"
	"net/url"

	"github.com/skip2/go-qrcode"
)

// TableURL is the address printed on a table: {base}/{restaurant}?table={username}
func TableURL(baseURL, restaurant, username string) string {
	return fmt.Sprintf("%s/%s?table=%s", baseURL, url.PathEscape(restaurant), url.QueryEscape(username))
}

// TableQRCode renders TableURL as a 256px PNG.
func TableQRCode(baseURL, restaurant, username string) ([]byte, error) {
	return qrcode.Encode(TableURL(baseURL, restaurant, username), qrcode.Medium, 256)
}
