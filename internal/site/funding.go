package site

import (
	"context"
	stderrors "errors"
	"html/template"
	"io/fs"
	"os"

	"git.home.luguber.info/inful/projectsite/internal/foundation/errors"
	"git.home.luguber.info/inful/projectsite/internal/funding"
	"git.home.luguber.info/inful/projectsite/internal/logfields"
)

const fundingPage = "funding.html"

type fundingData struct {
	Project   string
	Intro     template.HTML
	Preferred *funding.Entry
	Entries   []funding.Entry
}

// stageFunding renders the funding page from FUNDING.yml and the optional markdown intro.
// Either source alone is enough; with neither the component fails and is skipped.
// Like the other release components it needs a release context.
func stageFunding(_ context.Context, bs *buildState) error {
	if bs.releases == nil {
		return errStageSkipped
	}
	fc := bs.cfg.Components.Funding
	data := fundingData{Project: bs.cfg.Project.Name}

	var fund *funding.Funding
	if fc.YMLPath != "" {
		f, err := funding.Load(bs.cfg.Path(fc.YMLPath))
		switch {
		case err == nil:
			fund = f
		case stderrors.Is(err, funding.ErrFundingMissing) && fc.MDPath != "":
			bs.logger.Debug("No funding descriptor, using markdown only", logfields.Path(fc.YMLPath))
		default:
			return err
		}
	}

	if fc.MDPath != "" {
		path := bs.cfg.Path(fc.MDPath)
		src, err := os.ReadFile(path)
		switch {
		case err == nil:
			intro, err := bs.renderer.Render(src)
			if err != nil {
				return err
			}
			// #nosec G203 -- rendered markdown from the project's own funding page
			data.Intro = template.HTML(intro)
		case stderrors.Is(err, fs.ErrNotExist) && fund != nil:
			bs.logger.Debug("No funding markdown, using descriptor only", logfields.Path(path))
		case stderrors.Is(err, fs.ErrNotExist):
			return funding.ErrFundingMissing.WithContext("path", path)
		default:
			return errors.ComponentError("failed to read funding markdown").WithCause(err).WithContext("path", path).Build()
		}
	}

	if fund != nil {
		if err := fund.Prefer(fc.Preferred); err != nil {
			bs.warn(StageFunding, "Preferred funding platform not found, keeping descriptor order", err)
		}
		data.Preferred = fund.Preferred
		data.Entries = fund.Entries
	}

	body, err := bs.theme.render("funding", data)
	if err != nil {
		return err
	}
	bs.addFragment(fragment{Filename: fundingPage, Title: "Funding", NavLabel: "Funding", Body: body})
	return nil
}
