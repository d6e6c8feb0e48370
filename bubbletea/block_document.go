package bubbletea

import astra "github.com/shimonpozd/astra-web-client-sub000"

var _ MessageBlock = (*DocumentBlock)(nil)

// DocumentBlock accumulates one streamed answer and renders it.
type DocumentBlock struct {
	builder astra.Builder
	styles  Styles
}

// NewDocumentBlock creates an empty DocumentBlock.
func NewDocumentBlock(styles Styles) *DocumentBlock {
	return &DocumentBlock{styles: styles}
}

// Apply folds a stream event into the answer.
func (b *DocumentBlock) Apply(evt astra.Event) {
	b.builder.Apply(evt)
}

// Document returns the blocks received so far.
func (b *DocumentBlock) Document() astra.Document {
	return b.builder.Document()
}

func (b *DocumentBlock) View(width int) string {
	return Render(b.builder.Document(), b.builder.Text(), width, b.styles)
}
