package ffmpeg

// libstream_ffmpeg function pointers
var (
	streamFFmpegVersion func() uintptr

	streamFFmpegAvMalloc func(size int32) uintptr
	streamFFmpegAvFree   func(ptr uintptr)

	streamFFmpegAvRegisterAll func()
	streamFFmpegAvcodecInit   func()

	streamFFmpegFindDecoder func(id int32) uintptr
	streamFFmpegFindEncoder func(id int32) uintptr
	streamFFmpegCodecIDH264 func() int32

	streamFFmpegAllocContext func() uintptr
	streamFFmpegFreeContext  func(ctx uintptr)
	streamFFmpegOpen         func(ctx, codec uintptr) int32
	streamFFmpegClose        func(ctx uintptr) int32
	streamFFmpegDecodeVideo  func(ctx, frame uintptr, gotPicture *int32, buf *byte, bufSize int32) int32
	streamFFmpegEncodeVideo  func(ctx uintptr, buf *byte, bufSize int32, frame uintptr) int32

	streamFFmpegAddFlags                func(ctx uintptr, v int32)
	streamFFmpegAddPartitions           func(ctx uintptr, v int32)
	streamFFmpegGetHeight               func(ctx uintptr) int32
	streamFFmpegGetPixFmt               func(ctx uintptr) int32
	streamFFmpegGetWidth                func(ctx uintptr) int32
	streamFFmpegSetBFrameStrategy       func(ctx uintptr, v int32)
	streamFFmpegSetBitRate              func(ctx uintptr, v int32)
	streamFFmpegSetBitRateTolerance     func(ctx uintptr, v int32)
	streamFFmpegSetChromaOffset         func(ctx uintptr, v int32)
	streamFFmpegSetCRF                  func(ctx uintptr, v float32)
	streamFFmpegSetDeblockBeta          func(ctx uintptr, v int32)
	streamFFmpegSetGOPSize              func(ctx uintptr, v int32)
	streamFFmpegSetIQuantFactor         func(ctx uintptr, v float32)
	streamFFmpegSetMaxBFrames           func(ctx uintptr, v int32)
	streamFFmpegSetMBDecision           func(ctx uintptr, v int32)
	streamFFmpegSetMECmp                func(ctx uintptr, v int32)
	streamFFmpegSetMEMethod             func(ctx uintptr, v int32)
	streamFFmpegSetMERange              func(ctx uintptr, v int32)
	streamFFmpegSetMESubpelQuality      func(ctx uintptr, v int32)
	streamFFmpegSetPixFmt               func(ctx uintptr, v int32)
	streamFFmpegSetQCompress            func(ctx uintptr, v float32)
	streamFFmpegSetQuantizer            func(ctx uintptr, qmin, qmax, maxQDiff int32)
	streamFFmpegSetRCBufferSize         func(ctx uintptr, v int32)
	streamFFmpegSetRCEq                 func(ctx uintptr, eq string)
	streamFFmpegSetRCMaxRate            func(ctx uintptr, v int32)
	streamFFmpegSetRefs                 func(ctx uintptr, v int32)
	streamFFmpegSetRTPPayloadSize       func(ctx uintptr, v int32)
	streamFFmpegSetSampleAspectRatio    func(ctx uintptr, num, den int32)
	streamFFmpegSetScenechangeThreshold func(ctx uintptr, v int32)
	streamFFmpegSetSize                 func(ctx uintptr, width, height int32)
	streamFFmpegSetThreadCount          func(ctx uintptr, v int32)
	streamFFmpegSetTicksPerFrame        func(ctx uintptr, v int32)
	streamFFmpegSetTimeBase             func(ctx uintptr, num, den int32)
	streamFFmpegSetTrellis              func(ctx uintptr, v int32)
	streamFFmpegSetWorkaroundBugs       func(ctx uintptr, v int32)

	streamFFmpegAllocFrame       func() uintptr
	streamFFmpegFreeFrame        func(frame uintptr)
	streamFFmpegFrameGetPTS      func(frame uintptr) int64
	streamFFmpegFrameSetData     func(frame, data0, offset1, offset2 uintptr)
	streamFFmpegFrameSetKey      func(frame uintptr, key int32)
	streamFFmpegFrameSetLinesize func(frame uintptr, l0, l1, l2 int32)
	streamFFmpegPictureFill      func(picture, ptr uintptr, pixFmt, width, height int32) int32
	streamFFmpegPictureGetData0  func(picture uintptr) uintptr
	streamFFmpegPictureGetSize   func(pixFmt, width, height int32) int32

	streamFFmpegPixFmtBGR32   func() int32
	streamFFmpegPixFmtBGR32_1 func() int32
	streamFFmpegPixFmtRGB24   func() int32
	streamFFmpegPixFmtRGB32   func() int32
	streamFFmpegPixFmtRGB32_1 func() int32
	streamFFmpegPixFmtYUV420P func() int32

	streamFFmpegSwsFreeContext      func(ctx uintptr)
	streamFFmpegSwsGetCachedContext func(ctx uintptr, srcW, srcH, srcFmt, dstW, dstH, dstFmt, flags int32) uintptr
	streamFFmpegSwsScalePicture     func(ctx, src uintptr, sliceY, sliceH int32, dst *byte, dstFmt, dstW, dstH int32) int32
	streamFFmpegSwsScaleBuffer      func(ctx uintptr, src *byte, srcFmt, srcW, srcH, sliceY, sliceH int32, dst *byte, dstFmt, dstW, dstH int32) int32
)

func symbols() map[string]any {
	return map[string]any{
		"stream_ffmpeg_version": &streamFFmpegVersion,

		"stream_ffmpeg_av_malloc": &streamFFmpegAvMalloc,
		"stream_ffmpeg_av_free":   &streamFFmpegAvFree,

		"stream_ffmpeg_av_register_all": &streamFFmpegAvRegisterAll,
		"stream_ffmpeg_avcodec_init":    &streamFFmpegAvcodecInit,

		"stream_ffmpeg_avcodec_find_decoder": &streamFFmpegFindDecoder,
		"stream_ffmpeg_avcodec_find_encoder": &streamFFmpegFindEncoder,
		"stream_ffmpeg_codec_id_h264":        &streamFFmpegCodecIDH264,

		"stream_ffmpeg_avcodec_alloc_context": &streamFFmpegAllocContext,
		"stream_ffmpeg_avcodec_free_context":  &streamFFmpegFreeContext,
		"stream_ffmpeg_avcodec_open":          &streamFFmpegOpen,
		"stream_ffmpeg_avcodec_close":         &streamFFmpegClose,
		"stream_ffmpeg_avcodec_decode_video":  &streamFFmpegDecodeVideo,
		"stream_ffmpeg_avcodec_encode_video":  &streamFFmpegEncodeVideo,

		"stream_ffmpeg_avcodeccontext_add_flags":                 &streamFFmpegAddFlags,
		"stream_ffmpeg_avcodeccontext_add_partitions":            &streamFFmpegAddPartitions,
		"stream_ffmpeg_avcodeccontext_get_height":                &streamFFmpegGetHeight,
		"stream_ffmpeg_avcodeccontext_get_pix_fmt":               &streamFFmpegGetPixFmt,
		"stream_ffmpeg_avcodeccontext_get_width":                 &streamFFmpegGetWidth,
		"stream_ffmpeg_avcodeccontext_set_b_frame_strategy":      &streamFFmpegSetBFrameStrategy,
		"stream_ffmpeg_avcodeccontext_set_bit_rate":              &streamFFmpegSetBitRate,
		"stream_ffmpeg_avcodeccontext_set_bit_rate_tolerance":    &streamFFmpegSetBitRateTolerance,
		"stream_ffmpeg_avcodeccontext_set_chromaoffset":          &streamFFmpegSetChromaOffset,
		"stream_ffmpeg_avcodeccontext_set_crf":                   &streamFFmpegSetCRF,
		"stream_ffmpeg_avcodeccontext_set_deblockbeta":           &streamFFmpegSetDeblockBeta,
		"stream_ffmpeg_avcodeccontext_set_gop_size":              &streamFFmpegSetGOPSize,
		"stream_ffmpeg_avcodeccontext_set_i_quant_factor":        &streamFFmpegSetIQuantFactor,
		"stream_ffmpeg_avcodeccontext_set_max_b_frames":          &streamFFmpegSetMaxBFrames,
		"stream_ffmpeg_avcodeccontext_set_mb_decision":           &streamFFmpegSetMBDecision,
		"stream_ffmpeg_avcodeccontext_set_me_cmp":                &streamFFmpegSetMECmp,
		"stream_ffmpeg_avcodeccontext_set_me_method":             &streamFFmpegSetMEMethod,
		"stream_ffmpeg_avcodeccontext_set_me_range":              &streamFFmpegSetMERange,
		"stream_ffmpeg_avcodeccontext_set_me_subpel_quality":     &streamFFmpegSetMESubpelQuality,
		"stream_ffmpeg_avcodeccontext_set_pix_fmt":               &streamFFmpegSetPixFmt,
		"stream_ffmpeg_avcodeccontext_set_qcompress":             &streamFFmpegSetQCompress,
		"stream_ffmpeg_avcodeccontext_set_quantizer":             &streamFFmpegSetQuantizer,
		"stream_ffmpeg_avcodeccontext_set_rc_buffer_size":        &streamFFmpegSetRCBufferSize,
		"stream_ffmpeg_avcodeccontext_set_rc_eq":                 &streamFFmpegSetRCEq,
		"stream_ffmpeg_avcodeccontext_set_rc_max_rate":           &streamFFmpegSetRCMaxRate,
		"stream_ffmpeg_avcodeccontext_set_refs":                  &streamFFmpegSetRefs,
		"stream_ffmpeg_avcodeccontext_set_rtp_payload_size":      &streamFFmpegSetRTPPayloadSize,
		"stream_ffmpeg_avcodeccontext_set_sample_aspect_ratio":   &streamFFmpegSetSampleAspectRatio,
		"stream_ffmpeg_avcodeccontext_set_scenechange_threshold": &streamFFmpegSetScenechangeThreshold,
		"stream_ffmpeg_avcodeccontext_set_size":                  &streamFFmpegSetSize,
		"stream_ffmpeg_avcodeccontext_set_thread_count":          &streamFFmpegSetThreadCount,
		"stream_ffmpeg_avcodeccontext_set_ticks_per_frame":       &streamFFmpegSetTicksPerFrame,
		"stream_ffmpeg_avcodeccontext_set_time_base":             &streamFFmpegSetTimeBase,
		"stream_ffmpeg_avcodeccontext_set_trellis":               &streamFFmpegSetTrellis,
		"stream_ffmpeg_avcodeccontext_set_workaround_bugs":       &streamFFmpegSetWorkaroundBugs,

		"stream_ffmpeg_avcodec_alloc_frame":   &streamFFmpegAllocFrame,
		"stream_ffmpeg_avcodec_free_frame":    &streamFFmpegFreeFrame,
		"stream_ffmpeg_avframe_get_pts":       &streamFFmpegFrameGetPTS,
		"stream_ffmpeg_avframe_set_data":      &streamFFmpegFrameSetData,
		"stream_ffmpeg_avframe_set_key_frame": &streamFFmpegFrameSetKey,
		"stream_ffmpeg_avframe_set_linesize":  &streamFFmpegFrameSetLinesize,
		"stream_ffmpeg_avpicture_fill":        &streamFFmpegPictureFill,
		"stream_ffmpeg_avpicture_get_data0":   &streamFFmpegPictureGetData0,
		"stream_ffmpeg_avpicture_get_size":    &streamFFmpegPictureGetSize,

		"stream_ffmpeg_pix_fmt_bgr32":   &streamFFmpegPixFmtBGR32,
		"stream_ffmpeg_pix_fmt_bgr32_1": &streamFFmpegPixFmtBGR32_1,
		"stream_ffmpeg_pix_fmt_rgb24":   &streamFFmpegPixFmtRGB24,
		"stream_ffmpeg_pix_fmt_rgb32":   &streamFFmpegPixFmtRGB32,
		"stream_ffmpeg_pix_fmt_rgb32_1": &streamFFmpegPixFmtRGB32_1,
		"stream_ffmpeg_pix_fmt_yuv420p": &streamFFmpegPixFmtYUV420P,

		"stream_ffmpeg_sws_free_context":       &streamFFmpegSwsFreeContext,
		"stream_ffmpeg_sws_get_cached_context": &streamFFmpegSwsGetCachedContext,
		"stream_ffmpeg_sws_scale_picture":      &streamFFmpegSwsScalePicture,
		"stream_ffmpeg_sws_scale_buffer":       &streamFFmpegSwsScaleBuffer,
	}
}
