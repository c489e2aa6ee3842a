package renderer

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/graphite-go/render/pipeline"
)

// ErrFrameSkipped is returned by ProcessRenderGraph when presentation frame
// acquisition failed and the renderer's acquire policy is AcquireSkip. The
// frame recorded nothing; the caller should simply tick again.
var ErrFrameSkipped = errors.New("renderer: presentation frame unavailable, frame skipped")

// MissingAttachmentError reports that a pass declared an attachment name that
// does not resolve to a texture: the name is not in the registry, the handle
// no longer tracks a texture, or "swap_chain" was referenced without a
// presentation surface.
type MissingAttachmentError struct {
	// Pass is the name of the pass declaring the attachment.
	Pass string

	// Attachment is the attachment name that failed to resolve.
	Attachment string
}

func (e MissingAttachmentError) Error() string {
	return fmt.Sprintf("renderer: pass %q references unresolvable attachment %q", e.Pass, e.Attachment)
}

// UnsupportedBindTypeError reports that a binding's named resource does not
// exist and the binding is not a uniform, so no placeholder can be
// auto-allocated for it.
type UnsupportedBindTypeError struct {
	// Binding is the name of the unresolved binding.
	Binding string

	// Kind is the binding's bind type.
	Kind pipeline.BindKind
}

func (e UnsupportedBindTypeError) Error() string {
	return fmt.Sprintf("renderer: binding %q has no registered resource and bind kind %d cannot be auto-allocated", e.Binding, e.Kind)
}
