package manage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/dmitrijs2005/travelapp/internal/netx"
	"github.com/dmitrijs2005/travelapp/internal/server/services"
)

type PhotoUploader interface {
	PhotoUploadURL(ctx context.Context, actor *services.Actor, id string) (*services.PhotoUpload, error)
}

// upload is a seam for tests.
var upload = netx.UploadToPresignedURL

// UploadPhoto stores the file at path as the listing's photo on behalf of
// actor.
func UploadPhoto(ctx context.Context, listings PhotoUploader, actor *services.Actor, listingID, path string, w io.Writer) error {
	body, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read photo: %w", err)
	}

	up, err := listings.PhotoUploadURL(ctx, actor, listingID)
	if err != nil {
		return err
	}

	if err := upload(ctx, up.URL, http.DetectContentType(body), body); err != nil {
		return err
	}

	fmt.Fprintf(w, "Uploaded %s as %s\n", path, up.Key)
	return nil
}
