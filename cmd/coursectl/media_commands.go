package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/coursecards-backend/internal/app"
	"github.com/yungbote/coursecards-backend/internal/domain"
	"github.com/yungbote/coursecards-backend/internal/modules/media"
)

func newSpeechCommand(ctx *commandContext) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "speech <text>",
		Short: "Synthesize speech and write the raw audio",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withPipeline(cmd.Context(), func(p *app.MediaPipeline) error {
				audio, err := p.SynthesizeSpeech(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return writeOutput(cmd, output, audio)
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "speech.mp3", "Output file, - for stdout")
	return cmd
}

func newImageCommand(ctx *commandContext) *cobra.Command {
	var (
		output     string
		spec       media.ImageSpec
		format     string
		aspect     string
		background bool
	)
	cmd := &cobra.Command{
		Use:   "image <prompt>",
		Short: "Generate an image and write the raw bytes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec.Prompt = args[0]
			spec.Format = domain.ImageFormat(format)
			spec.Aspect = domain.AspectRatio(aspect)
			if background {
				spec = media.BackgroundSpec(spec.Prompt, spec.Format)
			}
			return ctx.withPipeline(cmd.Context(), func(p *app.MediaPipeline) error {
				img, err := p.SynthesizeImage(cmd.Context(), spec)
				if err != nil {
					return err
				}
				return writeOutput(cmd, output, img)
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "image.png", "Output file, - for stdout")
	cmd.Flags().StringVar(&spec.Size, "size", "", "Explicit size such as 1024x1536")
	cmd.Flags().StringVar(&format, "format", "", "png or jpg")
	cmd.Flags().StringVar(&aspect, "aspect", "", "square, portrait or landscape")
	cmd.Flags().BoolVar(&background, "audio-background", false, "Portrait background for an audio card")
	return cmd
}

func newStoreCommand(ctx *commandContext) *cobra.Command {
	var (
		kind   string
		title  string
		source string
	)
	cmd := &cobra.Command{
		Use:   "store <file>",
		Short: "Optimize a media file, upload it and print its URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mk, ok := domain.ParseMediaKind(kind)
			if !ok {
				return fmt.Errorf("media kind %q must be audio or image", kind)
			}
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			return ctx.withPipeline(cmd.Context(), func(p *app.MediaPipeline) error {
				res, err := p.OptimizeAndStore(cmd.Context(), data, mk, title, source)
				if err != nil {
					return err
				}
				return writeJSON(cmd, res)
			})
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "image", "audio or image")
	cmd.Flags().StringVar(&title, "title", "", "Title used to name the object")
	cmd.Flags().StringVar(&source, "source-text", "", "Script or prompt carried into the result")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}
