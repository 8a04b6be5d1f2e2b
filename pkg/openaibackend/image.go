package openaibackend

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v2"
)

// GeneratedImage is one base64-encoded image produced by GenerateImage.
type GeneratedImage struct {
	Base64 string
}

// GenerateImage produces count images for the prompt. Size accepts the
// endpoint's size strings (e.g. "1024x1024"); empty means the endpoint
// default.
func (b *Backend) GenerateImage(ctx context.Context, prompt string, count int, size string) ([]GeneratedImage, error) {
	if prompt == "" {
		return nil, fmt.Errorf("prompt must not be empty")
	}
	if count < 1 {
		count = 1
	}

	params := openai.ImageGenerateParams{
		Prompt:         prompt,
		Model:          openai.ImageModelDallE3,
		N:              openai.Int(int64(count)),
		ResponseFormat: openai.ImageGenerateParamsResponseFormatB64JSON,
	}
	if size != "" {
		params.Size = openai.ImageGenerateParamsSize(size)
	}

	res, err := b.client.Images.Generate(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to generate image: %w", err)
	}

	images := make([]GeneratedImage, 0, len(res.Data))
	for _, item := range res.Data {
		images = append(images, GeneratedImage{Base64: item.B64JSON})
	}

	return images, nil
}

// DescribeImage produces a caption for the image at imageURL. An empty
// instruction asks for a short caption.
func (b *Backend) DescribeImage(ctx context.Context, imageURL, instruction string) (string, error) {
	if imageURL == "" {
		return "", fmt.Errorf("image url must not be empty")
	}
	if instruction == "" {
		instruction = "Describe this image in one short caption."
	}

	completion, err := b.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: b.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.TextContentPart(instruction),
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
					URL: imageURL,
				}),
			}),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create caption completion: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("no completion choices returned")
	}

	return completion.Choices[0].Message.Content, nil
}
