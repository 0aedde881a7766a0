package beeper

import (
	"context"
	"net/http"
)

// FocusApp brings Beeper Desktop to the foreground. A nil input just focuses
// the window; otherwise it navigates to the chat or message and fills the
// draft.
func (c *Client) FocusApp(ctx context.Context, in *FocusAppInput) (*FocusAppOutput, error) {
	var body any = emptyBody
	if in != nil {
		body = in
	}
	out := &FocusAppOutput{}
	if err := c.do(ctx, http.MethodPost, "/v1/focus", body, out); err != nil {
		return nil, err
	}
	return out, nil
}

// DownloadAsset downloads an mxc:// or localmxc:// asset to the machine
// running Beeper Desktop and returns its local file URL.
func (c *Client) DownloadAsset(ctx context.Context, assetURL string) (*DownloadAssetOutput, error) {
	if assetURL == "" {
		return nil, missing("url")
	}
	out := &DownloadAssetOutput{}
	if err := c.do(ctx, http.MethodPost, "/v1/assets/download", DownloadAssetInput{URL: assetURL}, out); err != nil {
		return nil, err
	}
	return out, nil
}
