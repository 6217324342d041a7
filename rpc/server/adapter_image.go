package server

import (
	"errors"
	"fmt"
	"image"

	"github.com/ValentinKolb/imgrpc/lib/imgcodec"
	"github.com/ValentinKolb/imgrpc/rpc/common"
)

const (
	invalidImagePrefix     = "Invalid image data: "
	processingFailedPrefix = "Failed to process image: "
)

// NewImageServerAdapter creates the adapter implementing the image service logic
func NewImageServerAdapter() IRPCServerAdapter {
	return &imageServerAdapterImpl{}
}

type imageServerAdapterImpl struct{}

// --------------------------------------------------------------------------
// Interface Methods (docu see server.IRPCServerAdapter)
// --------------------------------------------------------------------------

func (adapter *imageServerAdapterImpl) RotateImage(req *common.RotateRequest) common.Result {
	// unknown rotations are 0 degrees
	degrees := req.Rotation.Degrees()
	return process(req.GetImage(), func(img image.Image) (image.Image, error) {
		return imgcodec.Rotate(img, degrees)
	})
}

func (adapter *imageServerAdapterImpl) MeanFilter(img *common.Image) common.Result {
	return process(img, imgcodec.MeanFilter)
}

// --------------------------------------------------------------------------
// Helper Functions
// --------------------------------------------------------------------------

// process runs the pipeline shared by all calls: decode and verify the payload,
// transform the pixels and encode the result in the canonical format.
// The color flag of the input is carried through, the size is taken from the result.
func process(in *common.Image, transform func(image.Image) (image.Image, error)) (result common.Result) {
	// a panic in any library call is a processing failure, never a crash
	defer func() {
		if r := recover(); r != nil {
			Logger.Errorf("Recovered from panic while processing image: %v", r)
			result = common.NewErrorResult(common.ResultProcessingFailed, fmt.Sprintf("%s%v", processingFailedPrefix, r))
		}
	}()

	decoded, _, err := imgcodec.DecodeAndVerify(in.GetData())
	if err != nil {
		return errorResult(err)
	}

	transformed, err := transform(decoded)
	if err != nil {
		return errorResult(err)
	}

	data, err := imgcodec.EncodeCanonical(transformed)
	if err != nil {
		return errorResult(err)
	}

	bounds := transformed.Bounds()
	return common.NewResult(common.NewImage(data, bounds.Dx(), bounds.Dy(), in.GetColor()))
}

// errorResult sorts an error into the invalid input or the processing failure category
func errorResult(err error) common.Result {
	var decodeErr *imgcodec.DecodeError
	if errors.As(err, &decodeErr) {
		return common.NewErrorResult(common.ResultInvalidImage, invalidImagePrefix+err.Error())
	}
	return common.NewErrorResult(common.ResultProcessingFailed, processingFailedPrefix+err.Error())
}
