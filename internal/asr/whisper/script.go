package whisper

// workerScript is the Python side of the JSON line protocol. It reads the
// init config, loads the model once, then answers one request per line.
const workerScript = `
import json
import sys


def main():
    cfg = json.loads(sys.stdin.readline())
    try:
        from faster_whisper import WhisperModel

        model = WhisperModel(
            cfg.get("model") or "small",
            device=cfg.get("device") or "cpu",
            compute_type=cfg.get("compute_type") or "default",
        )
    except Exception as exc:
        print(json.dumps({"error": str(exc)}), flush=True)
        return
    print(json.dumps({"event": "ready"}), flush=True)

    for line in sys.stdin:
        line = line.strip()
        if not line:
            continue
        req = json.loads(line)
        try:
            segments, _ = model.transcribe(
                req["audio"],
                language=req.get("language") or None,
                task=req.get("task") or "transcribe",
                beam_size=int(cfg.get("beam_size") or 5),
                initial_prompt=req.get("initial_prompt") or None,
            )
            payload = [
                {"start": float(s.start), "end": float(s.end), "text": s.text}
                for s in segments
            ]
            print(json.dumps({"segments": payload}, ensure_ascii=False), flush=True)
        except Exception as exc:
            print(json.dumps({"error": str(exc)}), flush=True)


main()
`
